package dto

import "time"

// ScheduleOverrides adjusts the configured grid dimensions and economics for a
// single run. Absent fields fall back to the server defaults.
type ScheduleOverrides struct {
	Classrooms      *int     `json:"classrooms" validate:"omitempty,min=1"`
	Days            *int     `json:"days" validate:"omitempty,min=1,max=7"`
	Slots           *int     `json:"slots" validate:"omitempty,min=1,max=24"`
	MaxParticipants *int     `json:"maxParticipants" validate:"omitempty,min=1"`
	TicketPrice     *float64 `json:"ticketPrice" validate:"omitempty,gt=0"`
	HourlyPay       *float64 `json:"hourlyPay" validate:"omitempty,gt=0"`
	PresenceBonus   *float64 `json:"presenceBonus" validate:"omitempty,gt=0"`
	RentalCost      *float64 `json:"rentalCost" validate:"omitempty,gt=0"`
}

// OptimizerOverrides adjusts the annealing parameters for a single run.
type OptimizerOverrides struct {
	Alpha             *float64 `json:"alpha" validate:"omitempty,gt=0,lt=1"`
	InitialTemp       *float64 `json:"initialTemp" validate:"omitempty,gt=0"`
	IterationsPerTemp *int     `json:"iterationsPerTemp" validate:"omitempty,min=1"`
	MinTemp           *float64 `json:"minTemp" validate:"omitempty,gt=0"`
	Epsilon           *float64 `json:"epsilon" validate:"omitempty,gt=0"`
	MaxStagnantEpochs *int     `json:"maxStagnantEpochs" validate:"omitempty,min=1"`
	GreedyPlacement   *bool    `json:"greedyPlacement"`
}

// StartRunRequest queues a new optimization run.
type StartRunRequest struct {
	Label       string              `json:"label" validate:"omitempty,max=120"`
	Seed        int64               `json:"seed" validate:"omitempty,min=1"`
	Consolidate *bool               `json:"consolidate"`
	Schedule    *ScheduleOverrides  `json:"schedule" validate:"omitempty"`
	Optimizer   *OptimizerOverrides `json:"optimizer" validate:"omitempty"`
}

// RunListQuery filters run summaries.
type RunListQuery struct {
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=QUEUED RUNNING COMPLETED FAILED CANCELED"`
	Page     int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" json:"pageSize" validate:"omitempty,min=1,max=100"`
}

// RunResponse summarises a run for API consumers.
type RunResponse struct {
	ID          string     `json:"id"`
	Label       string     `json:"label,omitempty"`
	Status      string     `json:"status"`
	InitialCost *float64   `json:"initialCost,omitempty"`
	BestCost    *float64   `json:"bestCost,omitempty"`
	Iterations  int64      `json:"iterations"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// SlotView is one occupied cell of a finished timetable.
type SlotView struct {
	Classroom       int    `json:"classroom"`
	Day             int    `json:"day"`
	Slot            int    `json:"slot"`
	Category        string `json:"category"`
	CategoryOrdinal int    `json:"categoryOrdinal"`
	Instructor      int    `json:"instructor"`
	Participants    []int  `json:"participants"`
	Headcount       int    `json:"headcount"`
}

// GridResponse returns the assignment grid of a completed run.
type GridResponse struct {
	RunID      string     `json:"runId"`
	Classrooms int        `json:"classrooms"`
	Days       int        `json:"days"`
	Slots      int        `json:"slots"`
	BestCost   float64    `json:"bestCost"`
	Lessons    []SlotView `json:"lessons"`
}

// TraceResponse returns the per-iteration cost trace of a completed run.
type TraceResponse struct {
	RunID      string    `json:"runId"`
	Iterations int64     `json:"iterations"`
	Costs      []float64 `json:"costs"`
}

// ExportRequest selects the export format for a completed run.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportResponse returns a signed download token for a rendered export.
type ExportResponse struct {
	RunID     string    `json:"runId"`
	Format    string    `json:"format"`
	Filename  string    `json:"filename"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RosterClientView describes one client from the questionnaire export.
type RosterClientView struct {
	ID     int      `json:"id"`
	Wanted []string `json:"wanted"`
}

// RosterInstructorView describes one instructor and their qualifications.
type RosterInstructorView struct {
	ID        int      `json:"id"`
	Qualified []string `json:"qualified"`
}

// RosterResponse returns the loaded rosters and the category catalogue.
type RosterResponse struct {
	Categories  []string               `json:"categories"`
	Clients     []RosterClientView     `json:"clients"`
	Instructors []RosterInstructorView `json:"instructors"`
}
