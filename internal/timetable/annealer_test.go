package timetable

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annealFixture(t *testing.T, seed int64) (Config, *Grid, *rand.Rand) {
	t.Helper()
	cfg := Config{
		Classrooms: 2, Days: 3, Slots: 3, MaxParticipants: 2,
		TicketPrice: 40, HourlyPay: 50, PresenceBonus: 50, RentalCost: 200,
	}
	clients := []Client{
		NewClient(1, []LessonCategory{CategoryZumba, CategoryYoga}),
		NewClient(2, []LessonCategory{CategoryZumba}),
		NewClient(3, []LessonCategory{CategoryYoga, CategoryPilates}),
		NewClient(4, []LessonCategory{CategoryPilates}),
	}
	instructors := []Instructor{
		testInstructor(1, CategoryZumba, CategoryYoga),
		testInstructor(2, CategoryPilates, CategoryYoga),
	}
	rng := rand.New(rand.NewSource(seed))
	g, err := Initialize(rng, cfg, clients, instructors, false)
	require.NoError(t, err)
	return cfg, g, rng
}

func TestAnnealerSingleEpochNeverLosesGround(t *testing.T) {
	cfg, seedGrid, rng := annealFixture(t, 42)
	initial := Cost(seedGrid, cfg)

	params := DefaultParams()
	params.IterationsPerTemp = 1
	params.InitialTemp = 1
	params.MinTemp = 0.9
	params.Alpha = 0.5 // one outer iteration: 1*0.5 < 0.9

	annealer := NewAnnealer(cfg, params, rng, nil)
	_, result, err := annealer.Optimize(context.Background(), seedGrid)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
	assert.GreaterOrEqual(t, result.BestCost, initial)
}

func TestAnnealerBestCostBoundsTrace(t *testing.T) {
	cfg, seedGrid, rng := annealFixture(t, 99)
	initial := Cost(seedGrid, cfg)

	params := DefaultParams()
	params.Alpha = 0.9
	params.InitialTemp = 100
	params.MinTemp = 1
	params.IterationsPerTemp = 20
	params.MaxStagnantEpochs = 50

	annealer := NewAnnealer(cfg, params, rng, nil)
	best, result, err := annealer.Optimize(context.Background(), seedGrid)
	require.NoError(t, err)
	require.NotEmpty(t, result.Trace)
	assert.Len(t, result.Trace, result.Iterations)

	// The trace is a search trajectory; its running maximum never exceeds
	// the reported best, and the best never falls below the seed cost.
	runningMax := result.Trace[0]
	for _, c := range result.Trace {
		if c > runningMax {
			runningMax = c
		}
		assert.LessOrEqual(t, c, result.BestCost)
	}
	assert.GreaterOrEqual(t, result.BestCost, initial)
	assert.Equal(t, result.BestCost, Cost(best, cfg), "returned grid matches reported best cost")
}

func TestAnnealerPreservesLessonCount(t *testing.T) {
	cfg, seedGrid, rng := annealFixture(t, 7)
	seedCount := seedGrid.OccupiedCount()

	params := DefaultParams()
	params.Alpha = 0.9
	params.InitialTemp = 10
	params.MinTemp = 1
	params.IterationsPerTemp = 25
	params.MaxStagnantEpochs = 10

	annealer := NewAnnealer(cfg, params, rng, nil)
	best, _, err := annealer.Optimize(context.Background(), seedGrid)
	require.NoError(t, err)
	assert.Equal(t, seedCount, best.OccupiedCount())
	assert.Equal(t, seedCount, seedGrid.OccupiedCount(), "seed grid is never mutated")
}

func TestAnnealerHonoursCancellation(t *testing.T) {
	cfg, seedGrid, rng := annealFixture(t, 13)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	annealer := NewAnnealer(cfg, DefaultParams(), rng, nil)
	_, _, err := annealer.Optimize(ctx, seedGrid)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnnealerSurfacesDegenerateGrid(t *testing.T) {
	cfg := smallConfig()
	empty := NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots)

	annealer := NewAnnealer(cfg, DefaultParams(), rand.New(rand.NewSource(1)), nil)
	_, _, err := annealer.Optimize(context.Background(), empty)
	require.ErrorIs(t, err, ErrDegenerateGrid)
}
