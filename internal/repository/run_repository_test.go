package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/require"

	"github.com/fitplan/studio-api/internal/models"
)

func newRunRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()

	repo := NewRunRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO optimization_runs")).
		WithArgs(sqlmock.AnyArg(), "march rebuild", "QUEUED", sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, int64(0), nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.OptimizationRun{
		Label:  "march rebuild",
		Config: types.JSONText(`{"classrooms":1,"days":6,"slots":6}`),
		Slots:  types.JSONText(`[]`),
	}
	require.NoError(t, repo.Create(context.Background(), run))
	require.NotEmpty(t, run.ID)
	require.Equal(t, models.RunStatusQueued, run.Status)

	rows := sqlmock.NewRows([]string{"id", "label", "status", "config", "slots", "initial_cost", "best_cost", "iterations", "error", "created_at", "started_at", "finished_at"}).
		AddRow(run.ID, "march rebuild", "QUEUED", `{"classrooms":1,"days":6,"slots":6}`, `[]`, nil, nil, 0, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, status, config, slots, initial_cost, best_cost, iterations, error, created_at, started_at, finished_at FROM optimization_runs WHERE id = $1")).
		WithArgs(run.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, fetched.ID)
	require.Equal(t, models.RunStatusQueued, fetched.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	now := time.Now()
	status := models.RunStatusCompleted
	best := 1250.0
	iterations := int64(46050)
	slots := types.JSONText(`[{"classroom":0,"day":0,"slot":0}]`)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE optimization_runs SET status = $1, slots = $2, best_cost = $3, iterations = $4, finished_at = $5 WHERE id = $6")).
		WithArgs(status, slots, best, iterations, now, "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "run-1", UpdateRunParams{
		Status:     &status,
		Slots:      &slots,
		BestCost:   &best,
		Iterations: &iterations,
		FinishedAt: &now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryUpdateNoFields(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	require.NoError(t, repo.Update(context.Background(), "run-1", UpdateRunParams{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	status := models.RunStatusCompleted
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM optimization_runs WHERE status = $1")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows([]string{"id", "label", "status", "config", "slots", "initial_cost", "best_cost", "iterations", "error", "created_at", "started_at", "finished_at"}).
		AddRow("run-1", "", "COMPLETED", `{}`, `[]`, 100.0, 1250.0, 46050, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, status, config, slots, initial_cost, best_cost, iterations, error, created_at, started_at, finished_at FROM optimization_runs WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(status, 10, 0).
		WillReturnRows(rows)

	runs, total, err := repo.List(context.Background(), models.RunFilter{Status: &status, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, runs, 1)
	require.Equal(t, models.RunStatusCompleted, runs[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryDeleteFinishedBefore(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM optimization_runs")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeleteFinishedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(3), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
