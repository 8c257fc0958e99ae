// Package ingest reads the questionnaire CSV exports that feed the planner:
// semicolon-separated files pairing a numeric ID with a space-separated list
// of lesson-category ordinals.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fitplan/studio-api/internal/timetable"
)

const (
	clientIDColumn     = "Client_ID"
	instructorIDColumn = "Instructor_ID"
	categoriesColumn   = "Lesson_Types"
)

// ReadClients parses a client roster file.
func ReadClients(path string) ([]timetable.Client, error) {
	rows, err := readRoster(path, clientIDColumn)
	if err != nil {
		return nil, err
	}
	clients := make([]timetable.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, timetable.NewClient(row.id, row.categories))
	}
	return clients, nil
}

// ReadInstructors parses an instructor roster file.
func ReadInstructors(path string) ([]timetable.Instructor, error) {
	rows, err := readRoster(path, instructorIDColumn)
	if err != nil {
		return nil, err
	}
	instructors := make([]timetable.Instructor, 0, len(rows))
	for _, row := range rows {
		instructors = append(instructors, timetable.NewInstructor(row.id, row.categories))
	}
	return instructors, nil
}

type rosterRow struct {
	id         int
	categories []timetable.LessonCategory
}

func readRoster(path, idColumn string) ([]rosterRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()
	return parseRoster(f, idColumn)
}

func parseRoster(r io.Reader, idColumn string) ([]rosterRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}
	idIdx, catIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case idColumn:
			idIdx = i
		case categoriesColumn:
			catIdx = i
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("roster is missing column %q", idColumn)
	}
	if catIdx < 0 {
		return nil, fmt.Errorf("roster is missing column %q", categoriesColumn)
	}

	var rows []rosterRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster record: %w", err)
		}
		line++

		id, err := strconv.Atoi(strings.TrimSpace(record[idIdx]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", line, idColumn, record[idIdx])
		}

		categories, err := parseCategories(record[catIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, rosterRow{id: id, categories: categories})
	}
	return rows, nil
}

// parseCategories decodes the questionnaire's space-separated ordinal list.
// Unknown ordinals are a data error, never skipped.
func parseCategories(raw string) ([]timetable.LessonCategory, error) {
	fields := strings.Fields(raw)
	categories := make([]timetable.LessonCategory, 0, len(fields))
	for _, field := range fields {
		ordinal, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid category ordinal %q", field)
		}
		category, err := timetable.CategoryFromOrdinal(ordinal)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}
