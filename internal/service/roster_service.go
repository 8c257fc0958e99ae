package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fitplan/studio-api/internal/dto"
	"github.com/fitplan/studio-api/internal/ingest"
	"github.com/fitplan/studio-api/internal/timetable"
	appErrors "github.com/fitplan/studio-api/pkg/errors"
)

// RosterService loads the questionnaire exports and serves them to the
// optimizer and the API. Rosters are read once at startup and can be
// reloaded on demand after the CSV files change.
type RosterService struct {
	clientFile     string
	instructorFile string
	logger         *zap.Logger

	mu          sync.RWMutex
	clients     []timetable.Client
	instructors []timetable.Instructor
	loadedAt    time.Time
}

// NewRosterService constructs a RosterService. Call Load before serving.
func NewRosterService(clientFile, instructorFile string, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		clientFile:     clientFile,
		instructorFile: instructorFile,
		logger:         logger,
	}
}

// Load reads both roster files, replacing the in-memory rosters only when
// both parse cleanly.
func (s *RosterService) Load() error {
	clients, err := ingest.ReadClients(s.clientFile)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to load client roster")
	}
	instructors, err := ingest.ReadInstructors(s.instructorFile)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to load instructor roster")
	}

	s.mu.Lock()
	s.clients = clients
	s.instructors = instructors
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("rosters loaded",
		zap.Int("clients", len(clients)),
		zap.Int("instructors", len(instructors)),
	)
	return nil
}

// Clients returns a copy of the loaded client roster.
func (s *RosterService) Clients() []timetable.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]timetable.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

// Instructors returns a copy of the loaded instructor roster.
func (s *RosterService) Instructors() []timetable.Instructor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]timetable.Instructor, len(s.instructors))
	copy(out, s.instructors)
	return out
}

// Snapshot renders the rosters and the category catalogue for the API.
func (s *RosterService) Snapshot() dto.RosterResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := dto.RosterResponse{
		Categories:  make([]string, 0, timetable.CategoryCount),
		Clients:     make([]dto.RosterClientView, 0, len(s.clients)),
		Instructors: make([]dto.RosterInstructorView, 0, len(s.instructors)),
	}
	for _, category := range timetable.Categories() {
		resp.Categories = append(resp.Categories, category.String())
	}
	for _, client := range s.clients {
		resp.Clients = append(resp.Clients, dto.RosterClientView{
			ID:     client.ID,
			Wanted: categoryNames(client.Wanted),
		})
	}
	for _, instructor := range s.instructors {
		resp.Instructors = append(resp.Instructors, dto.RosterInstructorView{
			ID:        instructor.ID,
			Qualified: categoryNames(instructor.Qualified),
		})
	}
	return resp
}

func categoryNames(set timetable.CategorySet) []string {
	names := make([]string, 0, len(set))
	for _, ordinal := range set.Ordinals() {
		category, err := timetable.CategoryFromOrdinal(ordinal)
		if err != nil {
			continue
		}
		names = append(names, category.String())
	}
	return names
}
