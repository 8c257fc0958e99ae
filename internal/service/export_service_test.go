package service

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplan/studio-api/internal/models"
	appErrors "github.com/fitplan/studio-api/pkg/errors"
	"github.com/fitplan/studio-api/pkg/storage"
)

func newTestExportService(t *testing.T) *ExportService {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-secret", time.Hour)
	return NewExportService(files, signer, nil)
}

func sampleRunWithSlots() (*models.OptimizationRun, []models.SlotAssignment) {
	run := &models.OptimizationRun{ID: "run-1", Label: "spring week", Status: models.RunStatusCompleted}
	slots := []models.SlotAssignment{
		{Classroom: 0, Day: 1, Slot: 2, Category: "YOGA", CategoryOrdinal: 9, Instructor: 7, Participants: []int{1, 2}, Headcount: 2},
		{Classroom: 0, Day: 0, Slot: 0, Category: "ZUMBA", CategoryOrdinal: 1, Instructor: 4, Participants: []int{3}, Headcount: 1},
	}
	return run, slots
}

func TestExportServiceCSVRoundTrip(t *testing.T) {
	svc := newTestExportService(t)
	run, slots := sampleRunWithSlots()

	resp, err := svc.Export(run, slots, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, "timetable-run-1.csv", resp.Filename)
	require.NotEmpty(t, resp.Token)

	download, err := svc.Resolve(resp.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "text/csv", download.ContentType)

	payload, err := io.ReadAll(download.File)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Classroom,Day,Slot,Category,Instructor,Headcount,Participants", lines[0])
	// Rows come out sorted by classroom, day, slot.
	assert.Contains(t, lines[1], "ZUMBA")
	assert.Contains(t, lines[2], "YOGA")
}

func TestExportServicePDFRenders(t *testing.T) {
	svc := newTestExportService(t)
	run, slots := sampleRunWithSlots()

	resp, err := svc.Export(run, slots, ExportFormatPDF)
	require.NoError(t, err)

	download, err := svc.Resolve(resp.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "application/pdf", download.ContentType)

	header := make([]byte, 4)
	_, err = download.File.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newTestExportService(t)
	run, slots := sampleRunWithSlots()

	_, err := svc.Export(run, slots, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceResolveRejectsTamperedToken(t *testing.T) {
	svc := newTestExportService(t)
	run, slots := sampleRunWithSlots()

	resp, err := svc.Export(run, slots, ExportFormatCSV)
	require.NoError(t, err)

	_, err = svc.Resolve(resp.Token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
