package timetable

import (
	"fmt"
	"math/rand"
)

// Initialize builds a feasible starting grid from client demand and
// instructor qualifications. For every category the desiring clients are
// partitioned into groups of at most cfg.MaxParticipants; each group is
// placed on the next sequential cell (greedy) or a uniformly random free
// cell drawn without replacement. The instructor is chosen uniformly from
// the qualified pool minus anyone already teaching at the same weekly
// time-of-week position across classrooms.
func Initialize(rng *rand.Rand, cfg Config, clients []Client, instructors []Instructor, greedy bool) (*Grid, error) {
	grid := NewGrid(cfg.Classrooms, cfg.Days, cfg.Slots)

	required := 0
	for _, category := range Categories() {
		demand := 0
		for _, client := range clients {
			if client.Wanted.Has(category) {
				demand++
			}
		}
		required += groupCount(demand, cfg.MaxParticipants)
	}
	if required > grid.Capacity() {
		return nil, fmt.Errorf("%w: need %d cells, have %d", ErrInsufficientCapacity, required, grid.Capacity())
	}

	free := make([]int, grid.Capacity())
	for i := range free {
		free[i] = i
	}
	next := 0

	for _, category := range Categories() {
		var wanting []Client
		for _, client := range clients {
			if client.Wanted.Has(category) {
				wanting = append(wanting, client)
			}
		}
		if len(wanting) == 0 {
			continue
		}

		var qualified []Instructor
		for _, instructor := range instructors {
			if instructor.Qualified.Has(category) {
				qualified = append(qualified, instructor)
			}
		}

		groups := groupCount(len(wanting), cfg.MaxParticipants)
		for group := 0; group < groups; group++ {
			lo := group * cfg.MaxParticipants
			hi := lo + cfg.MaxParticipants
			if hi > len(wanting) {
				hi = len(wanting)
			}
			participants := make([]Client, hi-lo)
			copy(participants, wanting[lo:hi])

			var target int
			if greedy {
				target = next
				next++
			} else {
				pick := rng.Intn(len(free))
				target = free[pick]
				free = append(free[:pick], free[pick+1:]...)
			}

			instructor, err := pickInstructor(rng, grid, qualified, target)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", category, err)
			}
			if err := grid.Put(target, NewLesson(instructor, category, participants)); err != nil {
				return nil, err
			}
		}
	}

	return grid, nil
}

// pickInstructor excludes instructors already teaching at the target's weekly
// time-of-week position. The conflict check deliberately spans only cells
// sharing the same linear slot position across classrooms, not full day×slot
// identity.
func pickInstructor(rng *rand.Rand, grid *Grid, qualified []Instructor, target int) (Instructor, error) {
	interval := grid.Days() * grid.Slots()
	busy := make(map[int]struct{})
	for i := grid.WeekPosition(target); i < grid.Capacity(); i += interval {
		if lesson := grid.AtIndex(i); lesson != nil {
			busy[lesson.Instructor.ID] = struct{}{}
		}
	}

	var available []Instructor
	for _, instructor := range qualified {
		if _, taken := busy[instructor.ID]; !taken {
			available = append(available, instructor)
		}
	}
	if len(available) == 0 {
		return Instructor{}, ErrNoQualifiedInstructor
	}
	return available[rng.Intn(len(available))], nil
}

func groupCount(demand, maxPerLesson int) int {
	if demand == 0 {
		return 0
	}
	return (demand + maxPerLesson - 1) / maxPerLesson
}
