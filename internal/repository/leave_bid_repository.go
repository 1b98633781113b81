package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
)

const bidColumns = `id, pilot_id, bid_year, status, notes, submitted_at, reviewed_by, reviewed_at`
const bidOptionColumns = `id, bid_id, priority, start_date, end_date, status`

// LeaveBidRepository persists annual leave bids and their ranked options.
type LeaveBidRepository struct {
	db *sqlx.DB
}

// NewLeaveBidRepository constructs the repository.
func NewLeaveBidRepository(db *sqlx.DB) *LeaveBidRepository {
	return &LeaveBidRepository{db: db}
}

// Create inserts the bid and its options in a single transaction.
func (r *LeaveBidRepository) Create(ctx context.Context, bid *models.LeaveBid) error {
	if bid.ID == "" {
		bid.ID = uuid.NewString()
	}
	if bid.Status == "" {
		bid.Status = models.BidStatusPending
	}
	if bid.SubmittedAt.IsZero() {
		bid.SubmittedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin leave bid tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const bidQuery = `INSERT INTO leave_bids (id, pilot_id, bid_year, status, notes, submitted_at, reviewed_by, reviewed_at)
	VALUES (:id, :pilot_id, :bid_year, :status, :notes, :submitted_at, :reviewed_by, :reviewed_at)`
	if _, err := tx.NamedExecContext(ctx, bidQuery, bid); err != nil {
		return fmt.Errorf("create leave bid: %w", err)
	}

	const optionQuery = `INSERT INTO leave_bid_options (id, bid_id, priority, start_date, end_date, status)
	VALUES (:id, :bid_id, :priority, :start_date, :end_date, :status)`
	for i := range bid.Options {
		option := &bid.Options[i]
		if option.ID == "" {
			option.ID = uuid.NewString()
		}
		option.BidID = bid.ID
		if option.Status == "" {
			option.Status = models.OptionStatusPending
		}
		if _, err := tx.NamedExecContext(ctx, optionQuery, option); err != nil {
			return fmt.Errorf("create leave bid option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit leave bid: %w", err)
	}
	return nil
}

// GetByID fetches a bid with its options ordered by priority.
func (r *LeaveBidRepository) GetByID(ctx context.Context, id string) (*models.LeaveBid, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_bids WHERE id = $1", bidColumns)
	var bid models.LeaveBid
	if err := r.db.GetContext(ctx, &bid, query, id); err != nil {
		return nil, err
	}

	optionsQuery := fmt.Sprintf("SELECT %s FROM leave_bid_options WHERE bid_id = $1 ORDER BY priority ASC", bidOptionColumns)
	if err := r.db.SelectContext(ctx, &bid.Options, optionsQuery, id); err != nil {
		return nil, fmt.Errorf("list leave bid options: %w", err)
	}
	return &bid, nil
}

// List returns bids matching the filter, latest first. Options are loaded
// per bid; listing volumes are small (one bid per pilot per year).
func (r *LeaveBidRepository) List(ctx context.Context, filter models.LeaveBidFilter) ([]models.LeaveBid, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.PilotID != "" {
		args = append(args, filter.PilotID)
		conditions = append(conditions, fmt.Sprintf("pilot_id = $%d", len(args)))
	}
	if filter.BidYear != 0 {
		args = append(args, filter.BidYear)
		conditions = append(conditions, fmt.Sprintf("bid_year = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("SELECT %s FROM leave_bids", bidColumns))
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY submitted_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var bids []models.LeaveBid
	if err := r.db.SelectContext(ctx, &bids, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list leave bids: %w", err)
	}

	optionsQuery := fmt.Sprintf("SELECT %s FROM leave_bid_options WHERE bid_id = $1 ORDER BY priority ASC", bidOptionColumns)
	for i := range bids {
		if err := r.db.SelectContext(ctx, &bids[i].Options, optionsQuery, bids[i].ID); err != nil {
			return nil, fmt.Errorf("list leave bid options: %w", err)
		}
	}
	return bids, nil
}

// UpdateStatus persists an aggregate bid decision. The update is guarded
// against already-reviewed bids; zero rows surfaces as sql.ErrNoRows.
func (r *LeaveBidRepository) UpdateStatus(ctx context.Context, id string, status models.LeaveBidStatus, reviewerID string, reviewedAt time.Time) error {
	const query = `UPDATE leave_bids SET status = $2, reviewed_by = $3, reviewed_at = $4
	WHERE id = $1 AND status IN ('PENDING', 'PROCESSING')`
	result, err := r.db.ExecContext(ctx, query, id, status, reviewerID, reviewedAt)
	if err != nil {
		return fmt.Errorf("update leave bid status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check leave bid update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateOptionStatus records an independent per-option decision. Options are
// addressed by their stable id, never positional index.
func (r *LeaveBidRepository) UpdateOptionStatus(ctx context.Context, bidID, optionID string, status models.LeaveBidOptionStatus) error {
	const query = `UPDATE leave_bid_options SET status = $3 WHERE id = $2 AND bid_id = $1`
	result, err := r.db.ExecContext(ctx, query, bidID, optionID, status)
	if err != nil {
		return fmt.Errorf("update leave bid option status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check option update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkProcessing moves a pending bid into PROCESSING once any option has been
// individually decided.
func (r *LeaveBidRepository) MarkProcessing(ctx context.Context, id string) error {
	const query = `UPDATE leave_bids SET status = 'PROCESSING' WHERE id = $1 AND status = 'PENDING'`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark leave bid processing: %w", err)
	}
	return nil
}
