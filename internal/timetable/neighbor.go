package timetable

import "math/rand"

// Move records one applied relocation so a rejected proposal can be undone.
type Move struct {
	From int
	To   int
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	return Move{From: m.To, To: m.From}
}

// Neighbor mutates g into a structurally adjacent grid by relocating one
// uniformly chosen lesson into one uniformly chosen free cell, and returns
// the applied move. The occupied-cell count is invariant. Fails with
// ErrDegenerateGrid when the grid is fully empty or fully occupied.
func Neighbor(rng *rand.Rand, g *Grid) (Move, error) {
	occupied := g.Occupied()
	if len(occupied) == 0 {
		return Move{}, ErrDegenerateGrid
	}
	free := g.Free()
	if len(free) == 0 {
		return Move{}, ErrDegenerateGrid
	}

	move := Move{
		From: occupied[rng.Intn(len(occupied))],
		To:   free[rng.Intn(len(free))],
	}
	if err := g.Relocate(move.From, move.To); err != nil {
		return Move{}, err
	}
	return move, nil
}
