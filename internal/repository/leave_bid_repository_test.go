package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
)

func newLeaveBidRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestLeaveBidRepositoryCreateWithOptions(t *testing.T) {
	db, mock, cleanup := newLeaveBidRepoMock(t)
	defer cleanup()

	repo := NewLeaveBidRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO leave_bids")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO leave_bid_options")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO leave_bid_options")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	bid := &models.LeaveBid{
		PilotID: "pilot-1",
		BidYear: 2026,
		Options: []models.LeaveBidOption{
			{Priority: 1, StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)},
			{Priority: 2, StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)},
		},
	}
	require.NoError(t, repo.Create(context.Background(), bid))
	require.Equal(t, models.BidStatusPending, bid.Status)
	require.NotEmpty(t, bid.Options[0].ID)
	require.Equal(t, bid.ID, bid.Options[1].BidID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveBidRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newLeaveBidRepoMock(t)
	defer cleanup()

	repo := NewLeaveBidRepository(db)
	now := time.Now()
	bidRows := sqlmock.NewRows([]string{"id", "pilot_id", "bid_year", "status", "notes", "submitted_at", "reviewed_by", "reviewed_at"}).
		AddRow("bid-1", "pilot-1", 2026, "PENDING", nil, now, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, pilot_id, bid_year, status")).
		WithArgs("bid-1").
		WillReturnRows(bidRows)

	optionRows := sqlmock.NewRows([]string{"id", "bid_id", "priority", "start_date", "end_date", "status"}).
		AddRow("opt-1", "bid-1", 1, now, now, "PENDING").
		AddRow("opt-2", "bid-1", 2, now, now, "PENDING")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, bid_id, priority, start_date, end_date, status FROM leave_bid_options")).
		WithArgs("bid-1").
		WillReturnRows(optionRows)

	bid, err := repo.GetByID(context.Background(), "bid-1")
	require.NoError(t, err)
	require.Len(t, bid.Options, 2)
	require.Equal(t, 1, bid.Options[0].Priority)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveBidRepositoryUpdateStatusGuard(t *testing.T) {
	db, mock, cleanup := newLeaveBidRepoMock(t)
	defer cleanup()

	repo := NewLeaveBidRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_bids SET")).
		WithArgs("bid-1", "APPROVED", "admin-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), "bid-1", models.BidStatusApproved, "admin-1", now))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_bids SET")).
		WithArgs("bid-1", "REJECTED", "admin-1", now).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.Error(t, repo.UpdateStatus(context.Background(), "bid-1", models.BidStatusRejected, "admin-1", now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveBidRepositoryUpdateOptionStatus(t *testing.T) {
	db, mock, cleanup := newLeaveBidRepoMock(t)
	defer cleanup()

	repo := NewLeaveBidRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_bid_options SET")).
		WithArgs("bid-1", "opt-2", "APPROVED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateOptionStatus(context.Background(), "bid-1", "opt-2", models.OptionStatusApproved))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_bid_options SET")).
		WithArgs("bid-1", "missing", "REJECTED").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.Error(t, repo.UpdateOptionStatus(context.Background(), "bid-1", "missing", models.OptionStatusRejected))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveBidRepositoryMarkProcessing(t *testing.T) {
	db, mock, cleanup := newLeaveBidRepoMock(t)
	defer cleanup()

	repo := NewLeaveBidRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_bids SET status = 'PROCESSING'")).
		WithArgs("bid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkProcessing(context.Background(), "bid-1"))

	// a no-op on bids that already left PENDING
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_bids SET status = 'PROCESSING'")).
		WithArgs("bid-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.MarkProcessing(context.Background(), "bid-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
