package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RunStatus tracks the lifecycle of an optimization run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "QUEUED"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusCanceled  RunStatus = "CANCELED"
)

// Terminal reports whether the status can no longer change.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCanceled:
		return true
	}
	return false
}

// RunConfig is the effective configuration a run was started with, after
// merging request overrides onto the configured defaults.
type RunConfig struct {
	Classrooms      int     `json:"classrooms"`
	Days            int     `json:"days"`
	Slots           int     `json:"slots"`
	MaxParticipants int     `json:"max_participants"`
	TicketPrice     float64 `json:"ticket_price"`
	HourlyPay       float64 `json:"hourly_pay"`
	PresenceBonus   float64 `json:"presence_bonus"`
	RentalCost      float64 `json:"rental_cost"`

	Alpha             float64 `json:"alpha"`
	InitialTemp       float64 `json:"initial_temp"`
	IterationsPerTemp int     `json:"iterations_per_temp"`
	MinTemp           float64 `json:"min_temp"`
	Epsilon           float64 `json:"epsilon"`
	MaxStagnantEpochs int     `json:"max_stagnant_epochs"`
	GreedyPlacement   bool    `json:"greedy_placement"`
	Consolidate       bool    `json:"consolidate"`
	Seed              int64   `json:"seed,omitempty"`
}

// SlotAssignment is one occupied cell of the finished timetable.
type SlotAssignment struct {
	Classroom       int    `json:"classroom"`
	Day             int    `json:"day"`
	Slot            int    `json:"slot"`
	Category        string `json:"category"`
	CategoryOrdinal int    `json:"category_ordinal"`
	Instructor      int    `json:"instructor"`
	Participants    []int  `json:"participants"`
	Headcount       int    `json:"headcount"`
}

// OptimizationRun is the persisted summary of a run. The full grid and the
// per-iteration cost trace live in the run store; completed slots are kept
// here as JSON so a restarted server can still serve finished timetables.
type OptimizationRun struct {
	ID          string         `db:"id" json:"id"`
	Label       string         `db:"label" json:"label,omitempty"`
	Status      RunStatus      `db:"status" json:"status"`
	Config      types.JSONText `db:"config" json:"config"`
	Slots       types.JSONText `db:"slots" json:"-"`
	InitialCost *float64       `db:"initial_cost" json:"initial_cost,omitempty"`
	BestCost    *float64       `db:"best_cost" json:"best_cost,omitempty"`
	Iterations  int64          `db:"iterations" json:"iterations"`
	Error       *string        `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	StartedAt   *time.Time     `db:"started_at" json:"started_at,omitempty"`
	FinishedAt  *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
}

// RunFilter captures filtering criteria for listing runs.
type RunFilter struct {
	Status   *RunStatus
	Page     int
	PageSize int
}
