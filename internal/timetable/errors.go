package timetable

import "errors"

// Sentinel errors surfaced by the engine. The service layer maps them onto
// API error codes; the engine itself never retries.
var (
	// ErrUnknownCategory flags a questionnaire ordinal outside the known set.
	ErrUnknownCategory = errors.New("unknown lesson category")

	// ErrNoQualifiedInstructor is a configuration error: a category has
	// demand but no qualified, non-conflicting instructor remains.
	ErrNoQualifiedInstructor = errors.New("no qualified instructor available")

	// ErrInsufficientCapacity is a configuration error: the grid cannot hold
	// every required lesson group.
	ErrInsufficientCapacity = errors.New("grid capacity insufficient for required lessons")

	// ErrDegenerateGrid is raised when the neighbor operator is invoked on a
	// grid with no occupied or no free cells.
	ErrDegenerateGrid = errors.New("grid has no valid relocation move")
)
