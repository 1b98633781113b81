package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
)

const pilotColumns = `id, employee_number, full_name, email, rank, seniority_number, commencement_date, active, created_at, updated_at`

// PilotRepository provides database access to the crew roster.
type PilotRepository struct {
	db *sqlx.DB
}

// NewPilotRepository constructs the repository.
func NewPilotRepository(db *sqlx.DB) *PilotRepository {
	return &PilotRepository{db: db}
}

// Create inserts a new pilot row.
func (r *PilotRepository) Create(ctx context.Context, pilot *models.Pilot) error {
	if pilot.ID == "" {
		pilot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pilot.CreatedAt.IsZero() {
		pilot.CreatedAt = now
	}
	pilot.UpdatedAt = now
	const query = `INSERT INTO pilots (id, employee_number, full_name, email, rank, seniority_number, commencement_date, active, created_at, updated_at)
	VALUES (:id, :employee_number, :full_name, :email, :rank, :seniority_number, :commencement_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pilot); err != nil {
		return fmt.Errorf("create pilot: %w", err)
	}
	return nil
}

// GetByID fetches a pilot by identifier.
func (r *PilotRepository) GetByID(ctx context.Context, id string) (*models.Pilot, error) {
	query := fmt.Sprintf("SELECT %s FROM pilots WHERE id = $1", pilotColumns)
	var pilot models.Pilot
	if err := r.db.GetContext(ctx, &pilot, query, id); err != nil {
		return nil, err
	}
	return &pilot, nil
}

// GetByEmployeeNumber fetches a pilot by staff number.
func (r *PilotRepository) GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*models.Pilot, error) {
	query := fmt.Sprintf("SELECT %s FROM pilots WHERE employee_number = $1", pilotColumns)
	var pilot models.Pilot
	if err := r.db.GetContext(ctx, &pilot, query, employeeNumber); err != nil {
		return nil, err
	}
	return &pilot, nil
}

// List returns pilots matching the filter with a total count for pagination.
func (r *PilotRepository) List(ctx context.Context, filter models.PilotFilter) ([]models.Pilot, int, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.Rank != nil {
		args = append(args, *filter.Rank)
		conditions = append(conditions, fmt.Sprintf("rank = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(employee_number) LIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "seniority_number"
	switch filter.SortBy {
	case "full_name", "employee_number", "rank", "seniority_number", "created_at":
		sortBy = filter.SortBy
	}
	sortOrder := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s FROM pilots%s ORDER BY %s %s LIMIT %d OFFSET %d",
		pilotColumns, where, sortBy, sortOrder, pageSize, offset)
	var pilots []models.Pilot
	if err := r.db.SelectContext(ctx, &pilots, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list pilots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM pilots%s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count pilots: %w", err)
	}

	return pilots, total, nil
}

// Update persists mutable pilot fields.
func (r *PilotRepository) Update(ctx context.Context, pilot *models.Pilot) error {
	pilot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE pilots SET full_name = :full_name, email = :email, rank = :rank,
	seniority_number = :seniority_number, commencement_date = :commencement_date, active = :active, updated_at = :updated_at
	WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, pilot); err != nil {
		return fmt.Errorf("update pilot: %w", err)
	}
	return nil
}

// Delete soft-deletes a pilot by marking it inactive.
func (r *PilotRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE pilots SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete pilot: %w", err)
	}
	return nil
}

// CountActiveByRank returns the active headcount for a rank.
func (r *PilotRepository) CountActiveByRank(ctx context.Context, rank models.PilotRank) (int, error) {
	const query = `SELECT COUNT(*) FROM pilots WHERE rank = $1 AND active = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, rank); err != nil {
		return 0, fmt.Errorf("count active pilots: %w", err)
	}
	return count, nil
}
