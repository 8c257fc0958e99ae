package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplan/studio-api/internal/timetable"
)

func writeRosterFiles(t *testing.T, clientRows, instructorRows string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	clientFile := filepath.Join(dir, "form_answers.csv")
	instructorFile := filepath.Join(dir, "instructors_info.csv")
	require.NoError(t, os.WriteFile(clientFile, []byte("Client_ID;Lesson_Types\n"+clientRows), 0o644))
	require.NoError(t, os.WriteFile(instructorFile, []byte("Instructor_ID;Lesson_Types\n"+instructorRows), 0o644))
	return clientFile, instructorFile
}

func TestRosterServiceLoadAndSnapshot(t *testing.T) {
	clientFile, instructorFile := writeRosterFiles(t,
		"1;0 9\n2;3\n",
		"7;0 3 9\n",
	)
	svc := NewRosterService(clientFile, instructorFile, nil)
	require.NoError(t, svc.Load())

	clients := svc.Clients()
	require.Len(t, clients, 2)
	assert.Equal(t, 1, clients[0].ID)
	assert.True(t, clients[0].Wanted.Has(timetable.CategoryYoga))

	instructors := svc.Instructors()
	require.Len(t, instructors, 1)
	assert.True(t, instructors[0].Qualified.Has(timetable.CategoryFitness))

	snap := svc.Snapshot()
	assert.Len(t, snap.Categories, timetable.CategoryCount)
	require.Len(t, snap.Clients, 2)
	assert.Equal(t, []string{"CELLULITE_KILLER", "YOGA"}, snap.Clients[0].Wanted)
	require.Len(t, snap.Instructors, 1)
	assert.Equal(t, []string{"CELLULITE_KILLER", "FITNESS", "YOGA"}, snap.Instructors[0].Qualified)
}

func TestRosterServiceLoadRejectsUnknownOrdinal(t *testing.T) {
	clientFile, instructorFile := writeRosterFiles(t, "1;0 42\n", "7;0\n")
	svc := NewRosterService(clientFile, instructorFile, nil)
	require.Error(t, svc.Load())
}

func TestRosterServiceLoadKeepsOldRosterOnFailure(t *testing.T) {
	clientFile, instructorFile := writeRosterFiles(t, "1;0\n", "7;0\n")
	svc := NewRosterService(clientFile, instructorFile, nil)
	require.NoError(t, svc.Load())

	require.NoError(t, os.WriteFile(clientFile, []byte("Client_ID;Lesson_Types\nbroken;0\n"), 0o644))
	require.Error(t, svc.Load())
	assert.Len(t, svc.Clients(), 1)
}

func TestRosterServiceCopiesAreIndependent(t *testing.T) {
	clientFile, instructorFile := writeRosterFiles(t, "1;0\n2;1\n", "7;0 1\n")
	svc := NewRosterService(clientFile, instructorFile, nil)
	require.NoError(t, svc.Load())

	clients := svc.Clients()
	clients[0].ID = 99
	assert.Equal(t, 1, svc.Clients()[0].ID)
}
