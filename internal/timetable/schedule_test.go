package timetable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduleRejectsInvalidConfig(t *testing.T) {
	_, err := NewSchedule(Config{}, nil, nil, 1, nil)
	require.Error(t, err)
}

func TestScheduleSeedOptimizeConsolidatePipeline(t *testing.T) {
	cfg := Config{
		Classrooms: 1, Days: 6, Slots: 6, MaxParticipants: 5,
		TicketPrice: 40, HourlyPay: 50, PresenceBonus: 50, RentalCost: 200,
	}
	clients := []Client{
		NewClient(1, []LessonCategory{CategoryZumba, CategoryYoga}),
		NewClient(2, []LessonCategory{CategoryZumba}),
		NewClient(3, []LessonCategory{CategoryYoga}),
		NewClient(4, []LessonCategory{CategoryPilates}),
		NewClient(5, []LessonCategory{CategoryPilates, CategoryZumba}),
	}
	instructors := []Instructor{
		NewInstructor(1, []LessonCategory{CategoryZumba, CategoryPilates}),
		NewInstructor(2, []LessonCategory{CategoryYoga, CategoryPilates}),
	}

	s, err := NewSchedule(cfg, clients, instructors, 17, nil)
	require.NoError(t, err)
	require.NoError(t, s.Seed(false))

	initial := s.Cost()
	lessons := s.Snapshot().OccupiedCount()

	params := DefaultParams()
	params.Alpha = 0.9
	params.InitialTemp = 50
	params.MinTemp = 1
	params.IterationsPerTemp = 30
	params.MaxStagnantEpochs = 20

	result, err := s.Optimize(context.Background(), params)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.BestCost, initial)
	assert.Equal(t, result.BestCost, s.Cost(), "best grid is installed")
	assert.Len(t, s.Trace(), result.Iterations)

	costBefore := s.Cost()
	s.Consolidate()
	assert.GreaterOrEqual(t, s.Cost(), costBefore)
	assert.Equal(t, lessons, s.Snapshot().OccupiedCount())
}

func TestScheduleOptimizeRejectsBadParams(t *testing.T) {
	s, err := NewSchedule(smallConfig(), nil, nil, 1, nil)
	require.NoError(t, err)

	params := DefaultParams()
	params.Alpha = 1.5
	_, err = s.Optimize(context.Background(), params)
	require.Error(t, err)
}

func TestScheduleConfigErrorSkipsOptimizer(t *testing.T) {
	// Demand without any qualified instructor fails at seeding; the
	// committed grid stays empty and the optimizer is never reached.
	s, err := NewSchedule(smallConfig(),
		[]Client{NewClient(1, []LessonCategory{CategoryCrossFit})},
		[]Instructor{NewInstructor(1, []LessonCategory{CategoryYoga})},
		1, nil)
	require.NoError(t, err)

	err = s.Seed(false)
	require.ErrorIs(t, err, ErrNoQualifiedInstructor)
	assert.Zero(t, s.Snapshot().OccupiedCount())
}

func TestScheduleTraceIsACopy(t *testing.T) {
	s, err := NewSchedule(smallConfig(),
		[]Client{NewClient(1, []LessonCategory{CategoryYoga})},
		[]Instructor{NewInstructor(1, []LessonCategory{CategoryYoga})},
		23, nil)
	require.NoError(t, err)
	require.NoError(t, s.Seed(false))

	params := DefaultParams()
	params.Alpha = 0.5
	params.InitialTemp = 1
	params.MinTemp = 0.9
	params.IterationsPerTemp = 1
	_, err = s.Optimize(context.Background(), params)
	require.NoError(t, err)

	trace := s.Trace()
	require.NotEmpty(t, trace)
	trace[0] = -1
	assert.NotEqual(t, trace[0], s.Trace()[0])
}
