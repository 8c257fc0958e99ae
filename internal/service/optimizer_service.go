package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/fitplan/studio-api/internal/dto"
	"github.com/fitplan/studio-api/internal/models"
	"github.com/fitplan/studio-api/internal/repository"
	"github.com/fitplan/studio-api/internal/timetable"
	appErrors "github.com/fitplan/studio-api/pkg/errors"
	"github.com/fitplan/studio-api/pkg/jobs"
)

type runStore interface {
	Create(ctx context.Context, run *models.OptimizationRun) error
	GetByID(ctx context.Context, id string) (*models.OptimizationRun, error)
	List(ctx context.Context, filter models.RunFilter) ([]models.OptimizationRun, int, error)
	Update(ctx context.Context, id string, params repository.UpdateRunParams) error
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type rosterProvider interface {
	Clients() []timetable.Client
	Instructors() []timetable.Instructor
}

type runDispatcher interface {
	Enqueue(job jobs.Job) error
}

// OptimizerDefaults are the configured baselines a run starts from before
// request overrides are applied.
type OptimizerDefaults struct {
	Schedule timetable.Config
	Params   timetable.Params
}

// OptimizerServiceConfig governs run retention.
type OptimizerServiceConfig struct {
	ResultTTL time.Duration
	CacheTTL  time.Duration
}

// OptimizerService owns the optimization run lifecycle: queueing, execution,
// cancellation and result retrieval.
type OptimizerService struct {
	repo      runStore
	roster    rosterProvider
	queue     runDispatcher
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	defaults  OptimizerDefaults
	cfg       OptimizerServiceConfig
	registry  *runRegistry
}

// NewOptimizerService wires optimizer dependencies. The job queue is attached
// separately because its handler needs the service itself.
func NewOptimizerService(
	repo runStore,
	roster rosterProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	defaults OptimizerDefaults,
	cfg OptimizerServiceConfig,
) *OptimizerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &OptimizerService{
		repo:      repo,
		roster:    roster,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		defaults:  defaults,
		cfg:       cfg,
		registry:  newRunRegistry(cfg.ResultTTL),
	}
}

// AttachDispatcher installs the queue run jobs are submitted to.
func (s *OptimizerService) AttachDispatcher(queue runDispatcher) {
	s.queue = queue
}

// Start validates the request, registers a queued run and submits it.
func (s *OptimizerService) Start(ctx context.Context, req dto.StartRunRequest) (*dto.RunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "run queue not attached")
	}

	runConfig := s.mergeConfig(req)
	if err := scheduleConfig(runConfig).Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := annealingParams(runConfig).Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	configJSON, err := json.Marshal(runConfig)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode run config")
	}

	now := time.Now().UTC()
	run := models.OptimizationRun{
		ID:        uuid.NewString(),
		Label:     req.Label,
		Status:    models.RunStatusQueued,
		Config:    types.JSONText(configJSON),
		Slots:     types.JSONText(`[]`),
		CreatedAt: now,
	}

	if s.repo != nil {
		if err := s.repo.Create(ctx, &run); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist run")
		}
	}

	s.registry.Save(&runRecord{run: run, config: runConfig})

	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: "optimize"}); err != nil {
		s.registry.Delete(run.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue run")
	}

	s.logger.Info("run queued", zap.String("run_id", run.ID), zap.String("label", run.Label))
	resp := toRunResponse(run)
	return &resp, nil
}

// Get returns the run summary.
func (s *OptimizerService) Get(ctx context.Context, id string) (*dto.RunResponse, error) {
	run, _, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRunResponse(*run)
	return &resp, nil
}

// List returns run summaries, newest first.
func (s *OptimizerService) List(ctx context.Context, query dto.RunListQuery) ([]dto.RunResponse, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run list query")
	}
	filter := models.RunFilter{Page: query.Page, PageSize: query.PageSize}
	if query.Status != "" {
		status := models.RunStatus(query.Status)
		filter.Status = &status
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var (
		runs  []models.OptimizationRun
		total int
	)
	if s.repo != nil {
		var err error
		runs, total, err = s.repo.List(ctx, filter)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list runs")
		}
		// In-memory state is fresher than the last persisted write.
		for i := range runs {
			if rec, ok := s.registry.Get(runs[i].ID); ok {
				runs[i] = rec.run
			}
		}
	} else {
		runs, total = s.registry.List(filter)
	}

	responses := make([]dto.RunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toRunResponse(run))
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return responses, pagination, nil
}

// Grid returns the finished timetable of a completed run.
func (s *OptimizerService) Grid(ctx context.Context, id string) (*dto.GridResponse, error) {
	cacheKey := fmt.Sprintf("run:%s:grid", id)
	var cached dto.GridResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	run, rec, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("run is %s, grid available once completed", run.Status))
	}

	var runConfig models.RunConfig
	if err := json.Unmarshal(run.Config, &runConfig); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode run config")
	}

	var slots []models.SlotAssignment
	if rec != nil && rec.grid != nil {
		slots = buildSlots(rec.grid)
	} else if err := json.Unmarshal(run.Slots, &slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode run slots")
	}

	resp := &dto.GridResponse{
		RunID:      run.ID,
		Classrooms: runConfig.Classrooms,
		Days:       runConfig.Days,
		Slots:      runConfig.Slots,
		Lessons:    make([]dto.SlotView, 0, len(slots)),
	}
	if run.BestCost != nil {
		resp.BestCost = *run.BestCost
	}
	for _, slot := range slots {
		resp.Lessons = append(resp.Lessons, dto.SlotView(slot))
	}

	_ = s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	return resp, nil
}

// Trace returns the per-iteration cost trace of a completed run. Traces live
// only in memory; after a restart or TTL eviction they are gone.
func (s *OptimizerService) Trace(ctx context.Context, id string) (*dto.TraceResponse, error) {
	run, rec, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("run is %s, trace available once completed", run.Status))
	}
	if rec == nil || rec.trace == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trace no longer available for this run")
	}
	costs := make([]float64, len(rec.trace))
	copy(costs, rec.trace)
	return &dto.TraceResponse{RunID: run.ID, Iterations: run.Iterations, Costs: costs}, nil
}

// Slots returns the finished slot assignments for export consumers.
func (s *OptimizerService) Slots(ctx context.Context, id string) (*models.OptimizationRun, []models.SlotAssignment, error) {
	run, rec, err := s.lookup(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("run is %s, export available once completed", run.Status))
	}
	if rec != nil && rec.grid != nil {
		return run, buildSlots(rec.grid), nil
	}
	var slots []models.SlotAssignment
	if err := json.Unmarshal(run.Slots, &slots); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode run slots")
	}
	return run, slots, nil
}

// Cancel stops a queued or running run.
func (s *OptimizerService) Cancel(ctx context.Context, id string) (*dto.RunResponse, error) {
	rec, ok := s.registry.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found")
	}
	if rec.run.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("run already %s", rec.run.Status))
	}

	if rec.run.Status == models.RunStatusRunning {
		// The annealer notices the context and unwinds; the worker marks
		// the run canceled.
		s.registry.CancelRun(id)
		s.logger.Info("run cancellation requested", zap.String("run_id", id))
		run, _, err := s.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := toRunResponse(*run)
		return &resp, nil
	}

	// Still queued: mark terminal directly, the worker skips it.
	now := time.Now().UTC()
	updated := s.registry.Finish(id, func(r *runRecord) {
		r.run.Status = models.RunStatusCanceled
		r.run.FinishedAt = &now
	})
	s.persistStatus(ctx, id, models.RunStatusCanceled, nil, &now)
	s.logger.Info("queued run canceled", zap.String("run_id", id))
	resp := toRunResponse(updated)
	return &resp, nil
}

// Execute runs one queued optimization to completion. It is invoked by the
// job queue worker.
func (s *OptimizerService) Execute(ctx context.Context, id string) error {
	rec, ok := s.registry.Get(id)
	if !ok {
		return fmt.Errorf("run %s not registered", id)
	}
	if rec.run.Status != models.RunStatusQueued {
		return nil
	}

	started := time.Now().UTC()
	s.registry.Mutate(id, func(r *runRecord) {
		r.run.Status = models.RunStatusRunning
		r.run.StartedAt = &started
	})
	s.persistStart(ctx, id, started)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.registry.SetCancel(id, cancel)

	sched, initialCost, err := s.seedSchedule(rec.config)
	if err != nil {
		s.finishFailed(ctx, id, started, engineError(err))
		return err
	}
	s.registry.Mutate(id, func(r *runRecord) {
		r.run.InitialCost = &initialCost
	})

	result, err := sched.Optimize(runCtx, annealingParams(rec.config))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.finishCanceled(ctx, id, started)
			return nil
		}
		s.finishFailed(ctx, id, started, engineError(err))
		return err
	}

	if rec.config.Consolidate {
		sched.Consolidate()
	}
	bestCost := sched.Cost()
	grid := sched.Snapshot()
	trace := sched.Trace()
	finished := time.Now().UTC()
	iterations := int64(result.Iterations)

	slots := buildSlots(grid)
	slotsJSON, err := json.Marshal(slots)
	if err != nil {
		s.finishFailed(ctx, id, started, err)
		return err
	}
	slotsText := types.JSONText(slotsJSON)

	s.registry.Finish(id, func(r *runRecord) {
		r.run.Status = models.RunStatusCompleted
		r.run.InitialCost = &initialCost
		r.run.BestCost = &bestCost
		r.run.Iterations = iterations
		r.run.Slots = slotsText
		r.run.FinishedAt = &finished
		r.grid = grid
		r.trace = trace
	})

	if s.repo != nil {
		status := models.RunStatusCompleted
		if err := s.repo.Update(ctx, id, repository.UpdateRunParams{
			Status:      &status,
			Slots:       &slotsText,
			InitialCost: &initialCost,
			BestCost:    &bestCost,
			Iterations:  &iterations,
			FinishedAt:  &finished,
		}); err != nil {
			s.logger.Warn("failed to persist completed run", zap.String("run_id", id), zap.Error(err))
		}
	}

	_ = s.cache.Invalidate(ctx, fmt.Sprintf("run:%s:*", id))
	s.metrics.ObserveRun(string(models.RunStatusCompleted), finished.Sub(started), iterations)
	s.metrics.SetBestCost(bestCost)

	s.logger.Info("run completed",
		zap.String("run_id", id),
		zap.Float64("initial_cost", initialCost),
		zap.Float64("best_cost", bestCost),
		zap.Int64("iterations", iterations),
		zap.Duration("duration", finished.Sub(started)),
	)
	return nil
}

func (s *OptimizerService) seedSchedule(cfg models.RunConfig) (*timetable.Schedule, float64, error) {
	sched, err := timetable.NewSchedule(scheduleConfig(cfg), s.roster.Clients(), s.roster.Instructors(), cfg.Seed, s.logger)
	if err != nil {
		return nil, 0, err
	}
	if err := sched.Seed(cfg.GreedyPlacement); err != nil {
		return nil, 0, err
	}
	return sched, sched.Cost(), nil
}

// engineError maps engine sentinels onto the API error taxonomy.
func engineError(err error) *appErrors.Error {
	switch {
	case errors.Is(err, timetable.ErrNoQualifiedInstructor), errors.Is(err, timetable.ErrInsufficientCapacity):
		return appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, err.Error())
	case errors.Is(err, timetable.ErrDegenerateGrid):
		return appErrors.Wrap(err, appErrors.ErrDegenerateGrid.Code, appErrors.ErrDegenerateGrid.Status, err.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
}

func (s *OptimizerService) finishFailed(ctx context.Context, id string, started time.Time, cause error) {
	now := time.Now().UTC()
	msg := appErrors.FromError(cause).Message
	s.registry.Finish(id, func(r *runRecord) {
		r.run.Status = models.RunStatusFailed
		r.run.Error = &msg
		r.run.FinishedAt = &now
	})
	s.persistStatus(ctx, id, models.RunStatusFailed, &msg, &now)
	s.metrics.ObserveRun(string(models.RunStatusFailed), now.Sub(started), 0)
	s.logger.Warn("run failed", zap.String("run_id", id), zap.Error(cause))
}

func (s *OptimizerService) finishCanceled(ctx context.Context, id string, started time.Time) {
	now := time.Now().UTC()
	s.registry.Finish(id, func(r *runRecord) {
		r.run.Status = models.RunStatusCanceled
		r.run.FinishedAt = &now
	})
	s.persistStatus(ctx, id, models.RunStatusCanceled, nil, &now)
	s.metrics.ObserveRun(string(models.RunStatusCanceled), now.Sub(started), 0)
	s.logger.Info("run canceled", zap.String("run_id", id))
}

func (s *OptimizerService) persistStart(ctx context.Context, id string, started time.Time) {
	if s.repo == nil {
		return
	}
	status := models.RunStatusRunning
	if err := s.repo.Update(ctx, id, repository.UpdateRunParams{Status: &status, StartedAt: &started}); err != nil {
		s.logger.Warn("failed to persist run start", zap.String("run_id", id), zap.Error(err))
	}
}

func (s *OptimizerService) persistStatus(ctx context.Context, id string, status models.RunStatus, message *string, finished *time.Time) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Update(ctx, id, repository.UpdateRunParams{Status: &status, Error: message, FinishedAt: finished}); err != nil {
		s.logger.Warn("failed to persist run status", zap.String("run_id", id), zap.Error(err))
	}
}

// PruneFinished removes persisted runs whose retention window has passed.
// The in-memory registry evicts on its own TTL.
func (s *OptimizerService) PruneFinished(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-s.cfg.ResultTTL)
	removed, err := s.repo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prune finished runs")
	}
	if removed > 0 {
		s.logger.Info("pruned finished runs", zap.Int64("removed", removed))
	}
	return removed, nil
}

// lookup resolves a run from the registry, falling back to the repository
// for runs evicted from memory. The registry record may be nil.
func (s *OptimizerService) lookup(ctx context.Context, id string) (*models.OptimizationRun, *runRecord, error) {
	if rec, ok := s.registry.Get(id); ok {
		run := rec.run
		return &run, &rec, nil
	}
	if s.repo == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "run not found")
	}
	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "run not found")
	}
	return run, nil, nil
}

func (s *OptimizerService) mergeConfig(req dto.StartRunRequest) models.RunConfig {
	cfg := models.RunConfig{
		Classrooms:        s.defaults.Schedule.Classrooms,
		Days:              s.defaults.Schedule.Days,
		Slots:             s.defaults.Schedule.Slots,
		MaxParticipants:   s.defaults.Schedule.MaxParticipants,
		TicketPrice:       s.defaults.Schedule.TicketPrice,
		HourlyPay:         s.defaults.Schedule.HourlyPay,
		PresenceBonus:     s.defaults.Schedule.PresenceBonus,
		RentalCost:        s.defaults.Schedule.RentalCost,
		Alpha:             s.defaults.Params.Alpha,
		InitialTemp:       s.defaults.Params.InitialTemp,
		IterationsPerTemp: s.defaults.Params.IterationsPerTemp,
		MinTemp:           s.defaults.Params.MinTemp,
		Epsilon:           s.defaults.Params.Epsilon,
		MaxStagnantEpochs: s.defaults.Params.MaxStagnantEpochs,
		GreedyPlacement:   s.defaults.Params.GreedyPlacement,
		Consolidate:       true,
		Seed:              req.Seed,
	}
	if req.Consolidate != nil {
		cfg.Consolidate = *req.Consolidate
	}
	if o := req.Schedule; o != nil {
		if o.Classrooms != nil {
			cfg.Classrooms = *o.Classrooms
		}
		if o.Days != nil {
			cfg.Days = *o.Days
		}
		if o.Slots != nil {
			cfg.Slots = *o.Slots
		}
		if o.MaxParticipants != nil {
			cfg.MaxParticipants = *o.MaxParticipants
		}
		if o.TicketPrice != nil {
			cfg.TicketPrice = *o.TicketPrice
		}
		if o.HourlyPay != nil {
			cfg.HourlyPay = *o.HourlyPay
		}
		if o.RentalCost != nil {
			cfg.RentalCost = *o.RentalCost
		}
		if o.PresenceBonus != nil {
			cfg.PresenceBonus = *o.PresenceBonus
		}
	}
	if o := req.Optimizer; o != nil {
		if o.Alpha != nil {
			cfg.Alpha = *o.Alpha
		}
		if o.InitialTemp != nil {
			cfg.InitialTemp = *o.InitialTemp
		}
		if o.IterationsPerTemp != nil {
			cfg.IterationsPerTemp = *o.IterationsPerTemp
		}
		if o.MinTemp != nil {
			cfg.MinTemp = *o.MinTemp
		}
		if o.Epsilon != nil {
			cfg.Epsilon = *o.Epsilon
		}
		if o.MaxStagnantEpochs != nil {
			cfg.MaxStagnantEpochs = *o.MaxStagnantEpochs
		}
		if o.GreedyPlacement != nil {
			cfg.GreedyPlacement = *o.GreedyPlacement
		}
	}
	return cfg
}

func scheduleConfig(cfg models.RunConfig) timetable.Config {
	return timetable.Config{
		Classrooms:      cfg.Classrooms,
		Days:            cfg.Days,
		Slots:           cfg.Slots,
		MaxParticipants: cfg.MaxParticipants,
		TicketPrice:     cfg.TicketPrice,
		HourlyPay:       cfg.HourlyPay,
		PresenceBonus:   cfg.PresenceBonus,
		RentalCost:      cfg.RentalCost,
	}
}

func annealingParams(cfg models.RunConfig) timetable.Params {
	return timetable.Params{
		Alpha:             cfg.Alpha,
		InitialTemp:       cfg.InitialTemp,
		IterationsPerTemp: cfg.IterationsPerTemp,
		MinTemp:           cfg.MinTemp,
		Epsilon:           cfg.Epsilon,
		MaxStagnantEpochs: cfg.MaxStagnantEpochs,
		GreedyPlacement:   cfg.GreedyPlacement,
		Moves:             []timetable.MoveKind{timetable.MoveRelocate},
	}
}

func buildSlots(grid *timetable.Grid) []models.SlotAssignment {
	slots := make([]models.SlotAssignment, 0, grid.OccupiedCount())
	for _, idx := range grid.Occupied() {
		cell := grid.CellOf(idx)
		lesson := grid.AtIndex(idx)
		participants := make([]int, 0, lesson.Headcount())
		for _, client := range lesson.Participants {
			participants = append(participants, client.ID)
		}
		slots = append(slots, models.SlotAssignment{
			Classroom:       cell.Classroom,
			Day:             cell.Day,
			Slot:            cell.Slot,
			Category:        lesson.Category.String(),
			CategoryOrdinal: int(lesson.Category),
			Instructor:      lesson.Instructor.ID,
			Participants:    participants,
			Headcount:       lesson.Headcount(),
		})
	}
	return slots
}

func toRunResponse(run models.OptimizationRun) dto.RunResponse {
	resp := dto.RunResponse{
		ID:          run.ID,
		Label:       run.Label,
		Status:      string(run.Status),
		InitialCost: run.InitialCost,
		BestCost:    run.BestCost,
		Iterations:  run.Iterations,
		CreatedAt:   run.CreatedAt,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
	}
	if run.Error != nil {
		resp.Error = *run.Error
	}
	return resp
}

// runRecord is the in-memory state of a run: the persisted summary plus the
// artifacts that never hit the database.
type runRecord struct {
	run       models.OptimizationRun
	config    models.RunConfig
	grid      *timetable.Grid
	trace     []float64
	cancel    context.CancelFunc
	expiresAt time.Time
}

// runRegistry holds run records with TTL eviction of terminal runs.
type runRegistry struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*runRecord
}

func newRunRegistry(ttl time.Duration) *runRegistry {
	return &runRegistry{ttl: ttl, items: make(map[string]*runRecord)}
}

func (r *runRegistry) Save(rec *runRecord) {
	r.mu.Lock()
	r.items[rec.run.ID] = rec
	r.mu.Unlock()
}

// Get returns a snapshot of the record taken under the lock; the live record
// stays private to the registry and all writes go through Mutate or Finish.
// Grid and trace are assigned once on completion and never mutated after, so
// sharing those references is safe.
func (r *runRegistry) Get(id string) (runRecord, bool) {
	r.mu.RLock()
	rec, ok := r.items[id]
	var snap runRecord
	if ok {
		snap = runRecord{
			run:       rec.run,
			config:    rec.config,
			grid:      rec.grid,
			trace:     rec.trace,
			expiresAt: rec.expiresAt,
		}
	}
	r.mu.RUnlock()
	if !ok {
		return runRecord{}, false
	}
	if !snap.expiresAt.IsZero() && time.Now().After(snap.expiresAt) {
		r.Delete(id)
		return runRecord{}, false
	}
	return snap, true
}

func (r *runRegistry) Delete(id string) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}

func (r *runRegistry) Mutate(id string, fn func(*runRecord)) {
	r.mu.Lock()
	if rec, ok := r.items[id]; ok {
		fn(rec)
	}
	r.mu.Unlock()
}

// Finish applies terminal-state changes, clears the cancel hook and arms the
// TTL. It returns the updated summary.
func (r *runRegistry) Finish(id string, fn func(*runRecord)) models.OptimizationRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok {
		return models.OptimizationRun{ID: id}
	}
	fn(rec)
	rec.cancel = nil
	rec.expiresAt = time.Now().Add(r.ttl)
	return rec.run
}

func (r *runRegistry) SetCancel(id string, cancel context.CancelFunc) {
	r.mu.Lock()
	if rec, ok := r.items[id]; ok {
		rec.cancel = cancel
	}
	r.mu.Unlock()
}

// CancelRun invokes the run's cancel hook if armed.
func (r *runRegistry) CancelRun(id string) {
	r.mu.RLock()
	var cancel context.CancelFunc
	if rec, ok := r.items[id]; ok {
		cancel = rec.cancel
	}
	r.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// List pages through registry records, newest first.
func (r *runRegistry) List(filter models.RunFilter) ([]models.OptimizationRun, int) {
	r.mu.RLock()
	all := make([]models.OptimizationRun, 0, len(r.items))
	now := time.Now()
	for _, rec := range r.items {
		if !rec.expiresAt.IsZero() && now.After(rec.expiresAt) {
			continue
		}
		if filter.Status != nil && rec.run.Status != *filter.Status {
			continue
		}
		all = append(all, rec.run)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return []models.OptimizationRun{}, total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total
}

// OptimizerWorker bridges queue jobs to the optimizer service.
type OptimizerWorker struct {
	svc    *OptimizerService
	logger *zap.Logger
}

// NewOptimizerWorker constructs a worker.
func NewOptimizerWorker(svc *OptimizerService, logger *zap.Logger) *OptimizerWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptimizerWorker{svc: svc, logger: logger}
}

// Handle processes a queue job.
func (w *OptimizerWorker) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != "optimize" {
		w.logger.Warn("unknown job type", zap.String("type", job.Type))
		return nil
	}
	return w.svc.Execute(ctx, job.ID)
}
