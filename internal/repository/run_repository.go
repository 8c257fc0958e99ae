package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/fitplan/studio-api/internal/models"
)

const runColumns = "id, label, status, config, slots, initial_cost, best_cost, iterations, error, created_at, started_at, finished_at"

// RunRepository persists optimization run summaries.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository constructs the repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run row with generated defaults.
func (r *RunRepository) Create(ctx context.Context, run *models.OptimizationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.RunStatusQueued
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO optimization_runs (id, label, status, config, slots, initial_cost, best_cost, iterations, error, created_at, started_at, finished_at)
VALUES (:id, :label, :status, :config, :slots, :initial_cost, :best_cost, :iterations, :error, :created_at, :started_at, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create optimization run: %w", err)
	}
	return nil
}

// GetByID returns a run row by its identifier.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.OptimizationRun, error) {
	query := fmt.Sprintf("SELECT %s FROM optimization_runs WHERE id = $1", runColumns)
	var run models.OptimizationRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, fmt.Errorf("get optimization run: %w", err)
	}
	return &run, nil
}

// List returns run rows matching the filter, newest first, plus the total count.
func (r *RunRepository) List(ctx context.Context, filter models.RunFilter) ([]models.OptimizationRun, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	where := ""
	args := make([]interface{}, 0, 3)
	if filter.Status != nil {
		where = "WHERE status = $1"
		args = append(args, *filter.Status)
	}

	var total int
	countQuery := strings.TrimSpace(fmt.Sprintf("SELECT COUNT(*) FROM optimization_runs %s", where))
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count optimization runs: %w", err)
	}

	query := strings.TrimSpace(fmt.Sprintf(
		"SELECT %s FROM optimization_runs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		runColumns, where, len(args)+1, len(args)+2,
	))
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var runs []models.OptimizationRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list optimization runs: %w", err)
	}
	return runs, total, nil
}

// UpdateRunParams defines the mutable fields of a run row.
type UpdateRunParams struct {
	Status      *models.RunStatus
	Slots       *types.JSONText
	InitialCost *float64
	BestCost    *float64
	Iterations  *int64
	Error       *string
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// Update persists the provided changes for a run row.
func (r *RunRepository) Update(ctx context.Context, id string, params UpdateRunParams) error {
	set := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	argPos := 1

	if params.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *params.Status)
		argPos++
	}
	if params.Slots != nil {
		set = append(set, fmt.Sprintf("slots = $%d", argPos))
		args = append(args, *params.Slots)
		argPos++
	}
	if params.InitialCost != nil {
		set = append(set, fmt.Sprintf("initial_cost = $%d", argPos))
		args = append(args, *params.InitialCost)
		argPos++
	}
	if params.BestCost != nil {
		set = append(set, fmt.Sprintf("best_cost = $%d", argPos))
		args = append(args, *params.BestCost)
		argPos++
	}
	if params.Iterations != nil {
		set = append(set, fmt.Sprintf("iterations = $%d", argPos))
		args = append(args, *params.Iterations)
		argPos++
	}
	if params.Error != nil {
		set = append(set, fmt.Sprintf("error = $%d", argPos))
		args = append(args, *params.Error)
		argPos++
	}
	if params.StartedAt != nil {
		set = append(set, fmt.Sprintf("started_at = $%d", argPos))
		args = append(args, *params.StartedAt)
		argPos++
	}
	if params.FinishedAt != nil {
		set = append(set, fmt.Sprintf("finished_at = $%d", argPos))
		args = append(args, *params.FinishedAt)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE optimization_runs SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update optimization run: %w", err)
	}
	return nil
}

// DeleteFinishedBefore removes terminal runs older than the cutoff.
func (r *RunRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM optimization_runs
WHERE status IN ('COMPLETED', 'FAILED', 'CANCELED') AND finished_at IS NOT NULL AND finished_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete finished optimization runs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete finished optimization runs: %w", err)
	}
	return affected, nil
}
