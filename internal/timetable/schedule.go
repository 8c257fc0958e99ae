package timetable

import (
	"context"
	"math/rand"

	"go.uber.org/zap"
)

// Schedule is one planning session: config, roster, the committed grid and
// the cost trace of the most recent optimization run. It replaces the
// process-global "current schedule" of earlier tooling; every consumer
// receives it explicitly.
type Schedule struct {
	cfg         Config
	clients     []Client
	instructors []Instructor

	grid  *Grid
	trace []float64

	rng    *rand.Rand
	logger *zap.Logger
}

// NewSchedule validates the config and builds an empty session. seed fixes
// the random source; pass 0 for a non-deterministic run.
func NewSchedule(cfg Config, clients []Client, instructors []Instructor, seed int64, logger *zap.Logger) (*Schedule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	src := rand.NewSource(seed)
	if seed == 0 {
		src = rand.NewSource(rand.Int63())
	}
	return &Schedule{
		cfg:         cfg,
		clients:     clients,
		instructors: instructors,
		grid:        NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots),
		rng:         rand.New(src),
		logger:      logger,
	}, nil
}

// Config returns the session's schedule parameters.
func (s *Schedule) Config() Config { return s.cfg }

// Clients returns the roster of clients.
func (s *Schedule) Clients() []Client { return s.clients }

// Instructors returns the roster of instructors.
func (s *Schedule) Instructors() []Instructor { return s.instructors }

// Seed populates the grid with every required lesson exactly once.
func (s *Schedule) Seed(greedy bool) error {
	grid, err := Initialize(s.rng, s.cfg, s.clients, s.instructors, greedy)
	if err != nil {
		return err
	}
	s.grid = grid
	return nil
}

// Cost returns the current total score of the committed grid.
func (s *Schedule) Cost() float64 {
	return Cost(s.grid, s.cfg)
}

// LessonAt exposes read-only cell access for presentation consumers.
func (s *Schedule) LessonAt(classroom, day, slot int) *Lesson {
	return s.grid.At(Cell{Classroom: classroom, Day: day, Slot: slot})
}

// Snapshot returns an independent copy of the committed grid.
func (s *Schedule) Snapshot() *Grid {
	return s.grid.Clone()
}

// Trace returns the per-iteration cost trace of the last optimization run.
func (s *Schedule) Trace() []float64 {
	out := make([]float64, len(s.trace))
	copy(out, s.trace)
	return out
}

// Optimize runs the annealing search against the committed grid and, on
// success, installs the best grid found and records the cost trace. A
// cancelled or failed run leaves the committed grid untouched.
func (s *Schedule) Optimize(ctx context.Context, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	annealer := NewAnnealer(s.cfg, params, s.rng, s.logger)
	best, result, err := annealer.Optimize(ctx, s.grid)
	if err != nil {
		return Result{}, err
	}
	s.grid = best
	s.trace = result.Trace
	return result, nil
}

// Consolidate repacks instructors onto fewer distinct days in place.
func (s *Schedule) Consolidate() {
	Consolidate(s.grid)
}
