package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/repository"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/export"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/storage"
)

type exportRequestStore interface {
	List(ctx context.Context, filter models.RequestFilter) ([]models.PilotRequest, error)
	CountByStatus(ctx context.Context) ([]repository.StatusCount, error)
	CountByCategory(ctx context.Context) ([]repository.CategoryCount, error)
}

type exportBidStore interface {
	List(ctx context.Context, filter models.LeaveBidFilter) ([]models.LeaveBid, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	requests exportRequestStore
	bids     exportBidStore
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(requests exportRequestStore, bids exportBidStore, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		requests: requests,
		bids:     bids,
		storage:  storage,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/reports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := sanitizeFilename(job.Params.RosterPeriod)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), scope, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeRequests:
		return s.buildRequestsDataset(ctx, job.Params)
	case models.ReportTypeLeaveBids:
		return s.buildLeaveBidsDataset(ctx, job.Params)
	case models.ReportTypeSummary:
		return s.buildSummaryDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildRequestsDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	filter := models.RequestFilter{
		RosterPeriod: params.RosterPeriod,
		Category:     models.RequestCategory(params.Category),
		Limit:        200,
	}
	if params.Status != "" {
		filter.Statuses = []models.RequestStatus{models.RequestStatus(params.Status)}
	}
	rows, err := s.requests.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Employee":       row.EmployeeNumber,
			"Rank":           string(row.Rank),
			"Type":           string(row.Type),
			"Start":          row.StartDate.Format("2006-01-02"),
			"End":            row.EffectiveEnd().Format("2006-01-02"),
			"Days":           fmt.Sprintf("%d", row.DaysCount),
			"Roster Periods": strings.Join(row.RosterPeriods, " "),
			"Status":         string(row.Status),
			"Submitted":      row.SubmissionDate.Format("2006-01-02"),
			"Late":           fmt.Sprintf("%t", row.IsLateRequest),
			"Priority":       fmt.Sprintf("%d", row.PriorityScore),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Employee", "Rank", "Type", "Start", "End", "Days", "Roster Periods", "Status", "Submitted", "Late", "Priority"},
		Rows:    dataRows,
	}
	title := "Crew Requests"
	if params.RosterPeriod != "" {
		title = fmt.Sprintf("Crew Requests %s", params.RosterPeriod)
	}
	return dataset, title, nil
}

func (s *ExportService) buildLeaveBidsDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	filter := models.LeaveBidFilter{Limit: 200}
	if params.Status != "" {
		filter.Status = models.LeaveBidStatus(params.Status)
	}
	bids, err := s.bids.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(bids))
	for _, bid := range bids {
		for _, option := range bid.Options {
			dataRows = append(dataRows, map[string]string{
				"Pilot":         bid.PilotID,
				"Bid Year":      fmt.Sprintf("%d", bid.BidYear),
				"Bid Status":    string(bid.Status),
				"Priority":      fmt.Sprintf("%d", option.Priority),
				"Start":         option.StartDate.Format("2006-01-02"),
				"End":           option.EndDate.Format("2006-01-02"),
				"Option Status": string(option.Status),
			})
		}
	}
	dataset := export.Dataset{
		Headers: []string{"Pilot", "Bid Year", "Bid Status", "Priority", "Start", "End", "Option Status"},
		Rows:    dataRows,
	}
	return dataset, "Leave Bids", nil
}

func (s *ExportService) buildSummaryDataset(ctx context.Context, _ models.ReportJobParams) (export.Dataset, string, error) {
	byStatus, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	byCategory, err := s.requests.CountByCategory(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(byStatus)+len(byCategory))
	for _, row := range byStatus {
		rows = append(rows, map[string]string{
			"Metric": "Requests by status",
			"Key":    string(row.Status),
			"Value":  fmt.Sprintf("%d", row.Count),
		})
	}
	for _, row := range byCategory {
		rows = append(rows, map[string]string{
			"Metric": "Requests by category",
			"Key":    string(row.Category),
			"Value":  fmt.Sprintf("%d", row.Count),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Metric", "Key", "Value"},
		Rows:    rows,
	}
	return dataset, "Operations Summary", nil
}
