package dto

import "github.com/skycruzer/fleet-management-v2-sub016/internal/models"

// CreateReportRequest enqueues an export of filtered requests.
type CreateReportRequest struct {
	Type         models.ReportType   `json:"type" validate:"required"`
	Format       models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	RosterPeriod string              `json:"roster_period"`
	Status       string              `json:"status"`
	Category     string              `json:"category"`
}

// ReportJobResponse describes a queued or finished export job.
type ReportJobResponse struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Progress    int     `json:"progress"`
	DownloadURL *string `json:"download_url,omitempty"`
	Error       *string `json:"error,omitempty"`
}
