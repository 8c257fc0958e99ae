package timetable

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lessonFingerprint identifies a lesson independent of its grid position.
func lessonFingerprint(l *Lesson) string {
	ids := make([]int, 0, len(l.Participants))
	for _, p := range l.Participants {
		ids = append(ids, p.ID)
	}
	sort.Ints(ids)
	return fmt.Sprintf("i%d/%s/%v", l.Instructor.ID, l.Category, ids)
}

func gridFingerprints(g *Grid) []string {
	var out []string
	for _, idx := range g.Occupied() {
		out = append(out, lessonFingerprint(g.AtIndex(idx)))
	}
	sort.Strings(out)
	return out
}

func presenceDays(g *Grid, instructorID int) int {
	days := make(map[int]struct{})
	for _, idx := range g.Occupied() {
		if g.AtIndex(idx).Instructor.ID == instructorID {
			days[g.CellOf(idx).Day] = struct{}{}
		}
	}
	return len(days)
}

func TestConsolidateDrainsSparseDays(t *testing.T) {
	g := NewGrid(1, 3, 4)
	// Instructor 1 spread over three days: 2 + 1 + 1 lessons.
	require.NoError(t, g.Put(g.Index(Cell{Day: 0, Slot: 0}), testLesson(1, CategoryZumba, 1)))
	require.NoError(t, g.Put(g.Index(Cell{Day: 0, Slot: 1}), testLesson(1, CategoryYoga, 2)))
	require.NoError(t, g.Put(g.Index(Cell{Day: 1, Slot: 0}), testLesson(1, CategoryPilates, 3)))
	require.NoError(t, g.Put(g.Index(Cell{Day: 2, Slot: 3}), testLesson(1, CategoryFitness, 4)))

	before := gridFingerprints(g)
	require.Equal(t, 3, presenceDays(g, 1))

	Consolidate(g)

	assert.Equal(t, 1, presenceDays(g, 1), "four lessons fit one four-slot day")
	assert.Equal(t, before, gridFingerprints(g), "lessons and participants are untouched")
}

func TestConsolidateRespectsCapacity(t *testing.T) {
	g := NewGrid(1, 2, 2)
	// Both days full for instructor 1: nothing can move.
	require.NoError(t, g.Put(0, testLesson(1, CategoryZumba, 1)))
	require.NoError(t, g.Put(1, testLesson(1, CategoryYoga, 2)))
	require.NoError(t, g.Put(2, testLesson(1, CategoryPilates, 3)))
	require.NoError(t, g.Put(3, testLesson(1, CategoryFitness, 4)))

	before := g.Occupied()
	Consolidate(g)
	assert.Equal(t, before, g.Occupied())
}

func TestConsolidateLeavesOtherInstructorsInPlace(t *testing.T) {
	g := NewGrid(1, 2, 3)
	require.NoError(t, g.Put(g.Index(Cell{Day: 0, Slot: 0}), testLesson(1, CategoryZumba, 1)))
	require.NoError(t, g.Put(g.Index(Cell{Day: 1, Slot: 0}), testLesson(1, CategoryYoga, 2)))
	require.NoError(t, g.Put(g.Index(Cell{Day: 1, Slot: 1}), testLesson(2, CategoryPilates, 3)))

	Consolidate(g)

	assert.Equal(t, 1, presenceDays(g, 1))
	assert.Equal(t, 1, presenceDays(g, 2))
	assert.Equal(t, 3, g.OccupiedCount())
}

func TestConsolidateNeverWorsensScore(t *testing.T) {
	cfg := Config{
		Classrooms: 2, Days: 4, Slots: 3, MaxParticipants: 5,
		TicketPrice: 40, HourlyPay: 50, PresenceBonus: 50, RentalCost: 200,
	}
	g := NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots)
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 0, Day: 0, Slot: 0}), testLesson(1, CategoryZumba, 1, 2)))
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 0, Day: 1, Slot: 1}), testLesson(1, CategoryYoga, 3)))
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 0, Day: 3, Slot: 2}), testLesson(1, CategoryPilates, 4)))
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 1, Day: 2, Slot: 0}), testLesson(2, CategoryCrossFit, 5, 6)))

	before := Cost(g, cfg)
	fingerprints := gridFingerprints(g)

	Consolidate(g)

	// Repacking can only drop presence-day and rental terms, never revenue
	// or hours, so the score is preserved or improved.
	assert.GreaterOrEqual(t, Cost(g, cfg), before)
	assert.Equal(t, fingerprints, gridFingerprints(g))
}

func TestConsolidateIsScopedPerClassroom(t *testing.T) {
	g := NewGrid(2, 2, 2)
	// Instructor 1 teaches in classroom 0 on day 0 and classroom 1 on day 1.
	// Consolidation works within a classroom, so neither lesson moves across.
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 0, Day: 0, Slot: 0}), testLesson(1, CategoryZumba, 1)))
	require.NoError(t, g.Put(g.Index(Cell{Classroom: 1, Day: 1, Slot: 0}), testLesson(1, CategoryYoga, 2)))

	Consolidate(g)

	assert.NotNil(t, g.At(Cell{Classroom: 0, Day: 0, Slot: 0}))
	assert.NotNil(t, g.At(Cell{Classroom: 1, Day: 1, Slot: 0}))
}
