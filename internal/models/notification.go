package models

import "time"

// NotificationType classifies pilot notifications.
type NotificationType string

const (
	NotificationRequestApproved  NotificationType = "REQUEST_APPROVED"
	NotificationRequestDenied    NotificationType = "REQUEST_DENIED"
	NotificationRequestInReview  NotificationType = "REQUEST_IN_REVIEW"
	NotificationRequestWithdrawn NotificationType = "REQUEST_WITHDRAWN"
	NotificationBidReviewed      NotificationType = "BID_REVIEWED"
)

// Notification is a pilot-facing message emitted by workflow transitions.
// Delivery beyond persistence (email, push) is handled by external systems.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	PilotID   string           `db:"pilot_id" json:"pilot_id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	RequestID *string          `db:"request_id" json:"request_id,omitempty"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
