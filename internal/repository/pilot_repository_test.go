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

func newPilotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPilotRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newPilotRepoMock(t)
	defer cleanup()

	repo := NewPilotRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pilots")).WillReturnResult(sqlmock.NewResult(1, 1))

	pilot := &models.Pilot{
		EmployeeNumber:  "2393",
		FullName:        "M Rondeau",
		Email:           "mrondeau@example.com",
		Rank:            models.RankCaptain,
		SeniorityNumber: 7,
		Active:          true,
	}
	require.NoError(t, repo.Create(context.Background(), pilot))
	require.NotEmpty(t, pilot.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPilotRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newPilotRepoMock(t)
	defer cleanup()

	repo := NewPilotRepository(db)
	now := time.Now()
	rank := models.RankCaptain
	active := true

	listRows := sqlmock.NewRows([]string{"id", "employee_number", "full_name", "email", "rank", "seniority_number", "commencement_date", "active", "created_at", "updated_at"}).
		AddRow("pilot-1", "2393", "M Rondeau", "mrondeau@example.com", "CAPTAIN", 7, nil, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, employee_number, full_name, email, rank, seniority_number, commencement_date, active, created_at, updated_at FROM pilots")).
		WithArgs("CAPTAIN", true).
		WillReturnRows(listRows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM pilots")).
		WithArgs("CAPTAIN", true).
		WillReturnRows(countRows)

	pilots, total, err := repo.List(context.Background(), models.PilotFilter{Rank: &rank, Active: &active})
	require.NoError(t, err)
	require.Len(t, pilots, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPilotRepositoryCountActiveByRank(t *testing.T) {
	db, mock, cleanup := newPilotRepoMock(t)
	defer cleanup()

	repo := NewPilotRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM pilots WHERE rank = $1 AND active = TRUE")).
		WithArgs("FIRST_OFFICER").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	count, err := repo.CountActiveByRank(context.Background(), models.RankFirstOfficer)
	require.NoError(t, err)
	require.Equal(t, 14, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
