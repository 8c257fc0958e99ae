package timetable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborPreservesOccupiedCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGrid(2, 3, 3)
	require.NoError(t, g.Put(0, testLesson(1, CategoryZumba, 1)))
	require.NoError(t, g.Put(4, testLesson(2, CategoryYoga, 2)))
	require.NoError(t, g.Put(9, testLesson(3, CategoryPilates, 3)))

	for i := 0; i < 200; i++ {
		_, err := Neighbor(rng, g)
		require.NoError(t, err)
		assert.Equal(t, 3, g.OccupiedCount())
	}
}

func TestNeighborMoveIsInvertible(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := NewGrid(1, 2, 3)
	require.NoError(t, g.Put(2, testLesson(1, CategoryFitness, 1, 2)))
	before := g.Occupied()

	move, err := Neighbor(rng, g)
	require.NoError(t, err)
	require.NoError(t, g.Relocate(move.Inverse().From, move.Inverse().To))

	assert.Equal(t, before, g.Occupied())
}

func TestNeighborFailsOnEmptyGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGrid(1, 1, 4)
	_, err := Neighbor(rng, g)
	require.ErrorIs(t, err, ErrDegenerateGrid)
}

func TestNeighborFailsOnFullGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGrid(1, 1, 2)
	require.NoError(t, g.Put(0, testLesson(1, CategoryZumba, 1)))
	require.NoError(t, g.Put(1, testLesson(2, CategoryYoga, 2)))
	_, err := Neighbor(rng, g)
	require.ErrorIs(t, err, ErrDegenerateGrid)
}
