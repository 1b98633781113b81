package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
)

const requestColumns = `id, pilot_id, employee_number, rank, category, type, start_date, end_date, days_count,
       roster_periods, channel, submission_date, is_late_request, is_past_deadline, reason,
       status, reviewed_by, reviewed_at, review_comments, priority_score, conflict_flags, created_at, updated_at`

// RequestRepository persists pilot request workflow data.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs the repository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new request row.
func (r *RequestRepository) Create(ctx context.Context, request *models.PilotRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.StatusSubmitted
	}
	now := time.Now().UTC()
	if request.SubmissionDate.IsZero() {
		request.SubmissionDate = now
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	const query = `INSERT INTO pilot_requests
	(id, pilot_id, employee_number, rank, category, type, start_date, end_date, days_count,
	 roster_periods, channel, submission_date, is_late_request, is_past_deadline, reason,
	 status, reviewed_by, reviewed_at, review_comments, priority_score, conflict_flags, created_at, updated_at)
	VALUES (:id, :pilot_id, :employee_number, :rank, :category, :type, :start_date, :end_date, :days_count,
	 :roster_periods, :channel, :submission_date, :is_late_request, :is_past_deadline, :reason,
	 :status, :reviewed_by, :reviewed_at, :review_comments, :priority_score, :conflict_flags, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create pilot request: %w", err)
	}
	return nil
}

// GetByID fetches a request by identifier.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.PilotRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM pilot_requests WHERE id = $1", requestColumns)
	var request models.PilotRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns requests matching the filter, highest priority first.
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.PilotRequest, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 8)
	builder.WriteString(fmt.Sprintf("SELECT %s FROM pilot_requests", requestColumns))

	conditions := make([]string, 0, 6)
	if filter.PilotID != "" {
		args = append(args, filter.PilotID)
		conditions = append(conditions, fmt.Sprintf("pilot_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.RosterPeriod != "" {
		args = append(args, filter.RosterPeriod)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(roster_periods)", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("COALESCE(end_date, start_date) >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", len(args)))
	}
	if filter.LateOnly {
		conditions = append(conditions, "is_late_request = TRUE")
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY priority_score DESC, submission_date ASC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var requests []models.PilotRequest
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list pilot requests: %w", err)
	}
	return requests, nil
}

// ListOverlapping returns another pilot's requests whose date ranges intersect
// [start, end] inclusively, limited to approved or pending rows. excludeID
// skips the candidate request itself when re-checking an existing row.
func (r *RequestRepository) ListOverlapping(ctx context.Context, pilotID string, start, end time.Time, excludeID string) ([]models.PilotRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM pilot_requests
	WHERE pilot_id = $1
	  AND status IN ('SUBMITTED', 'IN_REVIEW', 'APPROVED')
	  AND start_date <= $2
	  AND COALESCE(end_date, start_date) >= $3
	  AND id <> $4
	ORDER BY start_date ASC`, requestColumns)
	var requests []models.PilotRequest
	if err := r.db.SelectContext(ctx, &requests, query, pilotID, end, start, excludeID); err != nil {
		return nil, fmt.Errorf("list overlapping requests: %w", err)
	}
	return requests, nil
}

// CountPending returns the number of SUBMITTED/IN_REVIEW requests a pilot has,
// excluding the given request id.
func (r *RequestRepository) CountPending(ctx context.Context, pilotID, excludeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM pilot_requests
	WHERE pilot_id = $1 AND status IN ('SUBMITTED', 'IN_REVIEW') AND id <> $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, pilotID, excludeID); err != nil {
		return 0, fmt.Errorf("count pending requests: %w", err)
	}
	return count, nil
}

// FindDuplicate returns a non-terminal request with the same type and exact
// date range, if any.
func (r *RequestRepository) FindDuplicate(ctx context.Context, pilotID string, reqType models.RequestType, start, end time.Time, excludeID string) (*models.PilotRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM pilot_requests
	WHERE pilot_id = $1 AND type = $2
	  AND start_date = $3 AND COALESCE(end_date, start_date) = $4
	  AND status IN ('DRAFT', 'SUBMITTED', 'IN_REVIEW')
	  AND id <> $5
	LIMIT 1`, requestColumns)
	var request models.PilotRequest
	if err := r.db.GetContext(ctx, &request, query, pilotID, reqType, start, end, excludeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find duplicate request: %w", err)
	}
	return &request, nil
}

// CountPilotsOnLeave counts distinct pilots of the given rank with an approved
// or pending leave-category request covering any day of [start, end].
// excludeRequestID removes the candidate request from the count.
func (r *RequestRepository) CountPilotsOnLeave(ctx context.Context, rank models.PilotRank, start, end time.Time, excludeRequestID string) (int, error) {
	const query = `SELECT COUNT(DISTINCT pilot_id) FROM pilot_requests
	WHERE rank = $1
	  AND category = 'LEAVE'
	  AND status IN ('SUBMITTED', 'IN_REVIEW', 'APPROVED')
	  AND start_date <= $2
	  AND COALESCE(end_date, start_date) >= $3
	  AND id <> $4`
	var count int
	if err := r.db.GetContext(ctx, &count, query, rank, end, start, excludeRequestID); err != nil {
		return 0, fmt.Errorf("count pilots on leave: %w", err)
	}
	return count, nil
}

// PilotOnLeave reports whether the pilot has an approved or pending
// leave-category request covering any day of [start, end], excluding the given
// request id. Pilots already counted in the on-leave baseline must not be
// subtracted again when their own candidate request is evaluated.
func (r *RequestRepository) PilotOnLeave(ctx context.Context, pilotID string, start, end time.Time, excludeRequestID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM pilot_requests
	WHERE pilot_id = $1
	  AND category = 'LEAVE'
	  AND status IN ('SUBMITTED', 'IN_REVIEW', 'APPROVED')
	  AND start_date <= $2
	  AND COALESCE(end_date, start_date) >= $3
	  AND id <> $4)`
	var onLeave bool
	if err := r.db.GetContext(ctx, &onLeave, query, pilotID, end, start, excludeRequestID); err != nil {
		return false, fmt.Errorf("check pilot leave coverage: %w", err)
	}
	return onLeave, nil
}

// UpdateRequestStatusParams groups mutable columns for review operations.
type UpdateRequestStatusParams struct {
	ID            string
	Status        models.RequestStatus
	AllowedFrom   []models.RequestStatus
	ReviewedBy    *string
	ReviewedAt    *time.Time
	Comments      *string
	ConflictFlags []string
}

// UpdateStatus persists a workflow transition. The update is guarded by the
// AllowedFrom statuses; zero affected rows means the request moved underneath
// the reviewer and surfaces as sql.ErrNoRows.
func (r *RequestRepository) UpdateStatus(ctx context.Context, params UpdateRequestStatusParams) error {
	if len(params.AllowedFrom) == 0 {
		params.AllowedFrom = []models.RequestStatus{models.StatusSubmitted, models.StatusInReview}
	}
	from := make([]string, len(params.AllowedFrom))
	for i, s := range params.AllowedFrom {
		from[i] = fmt.Sprintf("'%s'", s)
	}

	setParts := []string{"status = :status", "updated_at = :updated_at"}
	if params.ReviewedBy != nil {
		setParts = append(setParts, "reviewed_by = :reviewed_by", "reviewed_at = :reviewed_at")
	}
	if params.Comments != nil {
		setParts = append(setParts, "review_comments = :comments")
	}
	if params.ConflictFlags != nil {
		setParts = append(setParts, "conflict_flags = :conflict_flags")
	}
	query := fmt.Sprintf("UPDATE pilot_requests SET %s WHERE id = :id AND status IN (%s)",
		strings.Join(setParts, ", "),
		strings.Join(from, ","),
	)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":             params.ID,
		"status":         params.Status,
		"updated_at":     time.Now().UTC(),
		"reviewed_by":    params.ReviewedBy,
		"reviewed_at":    params.ReviewedAt,
		"comments":       params.Comments,
		"conflict_flags": pq.StringArray(params.ConflictFlags),
	})
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check request update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a request row.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pilot_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pilot request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check request delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StatusCount aggregates request counts per workflow status.
type StatusCount struct {
	Status models.RequestStatus `db:"status" json:"status"`
	Count  int                  `db:"count" json:"count"`
}

// CountByStatus returns aggregate counts grouped by status.
func (r *RequestRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM pilot_requests GROUP BY status`
	var counts []StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count requests by status: %w", err)
	}
	return counts, nil
}

// CategoryCount aggregates request counts per category.
type CategoryCount struct {
	Category models.RequestCategory `db:"category" json:"category"`
	Count    int                    `db:"count" json:"count"`
}

// CountByCategory returns aggregate counts grouped by category.
func (r *RequestRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `SELECT category, COUNT(*) AS count FROM pilot_requests GROUP BY category`
	var counts []CategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count requests by category: %w", err)
	}
	return counts, nil
}

// PeriodCount aggregates pending requests per roster period.
type PeriodCount struct {
	Period string `db:"period" json:"period"`
	Count  int    `db:"count" json:"count"`
}

// CountPendingByRosterPeriod returns pending request counts per roster period.
func (r *RequestRepository) CountPendingByRosterPeriod(ctx context.Context) ([]PeriodCount, error) {
	const query = `SELECT period, COUNT(*) AS count
	FROM pilot_requests, UNNEST(roster_periods) AS period
	WHERE status IN ('SUBMITTED', 'IN_REVIEW')
	GROUP BY period
	ORDER BY period`
	var counts []PeriodCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count pending by roster period: %w", err)
	}
	return counts, nil
}
