package timetable

import "fmt"

// Config holds the immutable schedule parameters: grid dimensions and the
// economics used by the cost evaluator.
type Config struct {
	Classrooms      int     `json:"classrooms"`
	Days            int     `json:"days"`
	Slots           int     `json:"slots"`
	MaxParticipants int     `json:"maxParticipants"`
	TicketPrice     float64 `json:"ticketPrice"`
	HourlyPay       float64 `json:"hourlyPay"`
	PresenceBonus   float64 `json:"presenceBonus"`
	RentalCost      float64 `json:"rentalCost"`
}

// Validate rejects non-positive dimensions or economics.
func (c Config) Validate() error {
	switch {
	case c.Classrooms <= 0:
		return fmt.Errorf("classrooms must be positive, got %d", c.Classrooms)
	case c.Days <= 0:
		return fmt.Errorf("days must be positive, got %d", c.Days)
	case c.Slots <= 0:
		return fmt.Errorf("slots must be positive, got %d", c.Slots)
	case c.MaxParticipants <= 0:
		return fmt.Errorf("maxParticipants must be positive, got %d", c.MaxParticipants)
	case c.TicketPrice <= 0:
		return fmt.Errorf("ticketPrice must be positive, got %v", c.TicketPrice)
	case c.HourlyPay <= 0:
		return fmt.Errorf("hourlyPay must be positive, got %v", c.HourlyPay)
	case c.PresenceBonus <= 0:
		return fmt.Errorf("presenceBonus must be positive, got %v", c.PresenceBonus)
	case c.RentalCost <= 0:
		return fmt.Errorf("rentalCost must be positive, got %v", c.RentalCost)
	}
	return nil
}

// MoveKind names a neighbor move family. Only lesson relocation is
// implemented; the set exists because callers configure allowed moves
// explicitly.
type MoveKind string

// MoveRelocate moves one lesson from an occupied cell to a free cell.
const MoveRelocate MoveKind = "relocate"

// Params govern the annealing search.
type Params struct {
	Alpha             float64    `json:"alpha"`
	InitialTemp       float64    `json:"initialTemp"`
	IterationsPerTemp int        `json:"iterationsPerTemp"`
	MinTemp           float64    `json:"minTemp"`
	Epsilon           float64    `json:"epsilon"`
	MaxStagnantEpochs int        `json:"maxStagnantEpochs"`
	GreedyPlacement   bool       `json:"greedyPlacement"`
	Moves             []MoveKind `json:"moves,omitempty"`
}

// DefaultParams mirrors the tuning the studio has been operating with.
func DefaultParams() Params {
	return Params{
		Alpha:             0.9999,
		InitialTemp:       1000,
		IterationsPerTemp: 50,
		MinTemp:           0.1,
		Epsilon:           0.01,
		MaxStagnantEpochs: 1000,
		Moves:             []MoveKind{MoveRelocate},
	}
}

// Validate rejects out-of-range annealing parameters.
func (p Params) Validate() error {
	switch {
	case p.Alpha <= 0 || p.Alpha >= 1:
		return fmt.Errorf("alpha must be in (0, 1), got %v", p.Alpha)
	case p.InitialTemp <= 0:
		return fmt.Errorf("initialTemp must be positive, got %v", p.InitialTemp)
	case p.IterationsPerTemp <= 0:
		return fmt.Errorf("iterationsPerTemp must be positive, got %d", p.IterationsPerTemp)
	case p.MinTemp <= 0:
		return fmt.Errorf("minTemp must be positive, got %v", p.MinTemp)
	case p.Epsilon <= 0:
		return fmt.Errorf("epsilon must be positive, got %v", p.Epsilon)
	case p.MaxStagnantEpochs <= 0:
		return fmt.Errorf("maxStagnantEpochs must be positive, got %d", p.MaxStagnantEpochs)
	}
	for _, m := range p.Moves {
		if m != MoveRelocate {
			return fmt.Errorf("unsupported neighbor move %q", m)
		}
	}
	return nil
}
