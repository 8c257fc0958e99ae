package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	return Config{
		Classrooms:      1,
		Days:            1,
		Slots:           2,
		MaxParticipants: 5,
		TicketPrice:     40,
		HourlyPay:       50,
		PresenceBonus:   50,
		RentalCost:      200,
	}
}

func TestCostSingleLessonScenario(t *testing.T) {
	cfg := smallConfig()
	g := NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots)
	require.NoError(t, g.Put(0, testLesson(1, CategoryYoga, 10, 11)))

	// ticket*2 participants - hourly*1 lesson - bonus*1 presence day - rent*1 classroom day
	want := cfg.TicketPrice*2 - cfg.HourlyPay*1 - cfg.PresenceBonus*1 - cfg.RentalCost*1
	assert.Equal(t, want, Cost(g, cfg))
}

func TestCostIsPureAndDeterministic(t *testing.T) {
	cfg := Config{
		Classrooms: 2, Days: 3, Slots: 4, MaxParticipants: 5,
		TicketPrice: 40, HourlyPay: 50, PresenceBonus: 50, RentalCost: 200,
	}
	g := NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots)
	require.NoError(t, g.Put(0, testLesson(1, CategoryZumba, 1, 2, 3)))
	require.NoError(t, g.Put(5, testLesson(1, CategoryZumba, 4)))
	require.NoError(t, g.Put(13, testLesson(2, CategoryYoga, 5, 6)))

	first := Cost(g, cfg)
	second := Cost(g, cfg)
	assert.Equal(t, first, second)
}

func TestCostCountsPresencePerInstructorDay(t *testing.T) {
	cfg := Config{
		Classrooms: 2, Days: 2, Slots: 2, MaxParticipants: 5,
		TicketPrice: 40, HourlyPay: 50, PresenceBonus: 50, RentalCost: 200,
	}
	g := NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots)
	// Instructor 1 teaches twice on day 0, in both classrooms: one presence day.
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 0, Day: 0, Slot: 0}), testLesson(1, CategoryZumba, 1)))
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 1, Day: 0, Slot: 1}), testLesson(1, CategoryZumba, 2)))

	want := cfg.TicketPrice*2 - cfg.HourlyPay*2 - cfg.PresenceBonus*1 - cfg.RentalCost*2
	assert.Equal(t, want, Cost(g, cfg))
}

func TestCostEmptyGridIsZero(t *testing.T) {
	cfg := smallConfig()
	g := NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots)
	assert.Zero(t, Cost(g, cfg))
}
