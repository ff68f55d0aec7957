package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args against a fresh buffer.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLICapture(t, args...)
	return out, err
}

// runCLICapture is runCLI but also returns stderr, for tests that
// check diagnostic output.
func runCLICapture(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// tempDB points the CLI at a database under a fresh temp dir.
func tempDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pbsadmin.db")
	t.Setenv("PBS_DB_PATH", path)
	t.Setenv("PBS_BACKUP_DIR", filepath.Join(t.TempDir(), "backups"))
	t.Setenv("PBS_RECORDS_DIR", "")
	return path
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	_, err := runCLI(t, "rules", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRulesCommand_Text(t *testing.T) {
	out, err := runCLI(t, "rules")
	require.NoError(t, err)

	assert.Contains(t, out, "CheckQuestionnaireReturned")
	assert.Contains(t, out, "SendProtocolDocument")
	assert.Contains(t, out, "PrepareTrainingSession")
	assert.Contains(t, out, "RecordClientCreated")
	assert.Contains(t, out, "Event.created")
}

func TestRulesCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "rules", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	rows, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 4)
}

func TestClientAdd_RunsWelcomeAutomation(t *testing.T) {
	tempDB(t)

	out, err := runCLI(t, "client", "add", "--name", "Dana Reyes", "--email", "dana@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Created client Dana Reyes")
	assert.Contains(t, out, "RecordClientCreated")

	list, err := runCLI(t, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, list, "Dana Reyes")

	// The welcome rule recorded a Note event for the new client.
	events, err := runCLI(t, "event", "list", "--type", "Note")
	require.NoError(t, err)
	assert.Contains(t, events, "Note")
}

func TestClientAdd_CreatesRecordsFolder(t *testing.T) {
	tempDB(t)
	recordsDir := t.TempDir()
	t.Setenv("PBS_RECORDS_DIR", recordsDir)

	_, err := runCLI(t, "client", "add", "--name", "Dana Reyes")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(recordsDir, "Dana_Reyes"))
}

func TestEventAdd_BookingCreatesQuestionnaireTask(t *testing.T) {
	tempDB(t)

	out, err := runCLI(t, "event", "add",
		"--client", "client-1",
		"--type", "Booking",
		"--date", "2025-03-10T09:00:00+11:00")
	require.NoError(t, err)
	assert.Contains(t, out, "CheckQuestionnaireReturned")

	tasks, err := runCLI(t, "task", "list", "--status", "Pending")
	require.NoError(t, err)
	assert.Contains(t, tasks, "questionnaire")
	// 48 hours before the consultation, as a canonical instant
	assert.Contains(t, tasks, "2025-03-07T22:00:00Z")
}

func TestEventComplete_ConsultationCreatesProtocolTask(t *testing.T) {
	tempDB(t)

	out, err := runCLI(t, "event", "add",
		"--client", "client-1",
		"--type", "Consultation",
		"--date", "2025-03-10T09:00:00+11:00",
		"--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]interface{})
	eventID := data["id"].(string)

	done, err := runCLI(t, "event", "complete", eventID)
	require.NoError(t, err)
	assert.Contains(t, done, "SendProtocolDocument")

	tasks, err := runCLI(t, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, tasks, "protocol")
}

func TestTaskList_RejectsUnknownStatus(t *testing.T) {
	tempDB(t)

	_, err := runCLI(t, "task", "list", "--status", "Sideways")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTaskList_UnknownStatusEmitsErrorEnvelope(t *testing.T) {
	tempDB(t)

	out, err := runCLI(t, "task", "list", "--status", "Sideways", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBadInput, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unknown status")
}

func TestEventComplete_UnknownEventID(t *testing.T) {
	tempDB(t)

	out, err := runCLI(t, "event", "complete", "nosuch", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestFire_UnsupportedTrigger(t *testing.T) {
	tempDB(t)

	snapshot := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(snapshot, []byte("client:\n  id: c-1\n  name: Dana\n"), 0o644))

	_, err := runCLI(t, "fire", "Pet.created", "--entity", snapshot)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unsupported trigger")
}

func TestFire_UnsupportedTriggerListsSupportedKinds(t *testing.T) {
	tempDB(t)

	snapshot := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(snapshot, []byte("client:\n  id: c-1\n  name: Dana\n"), 0o644))

	out, err := runCLI(t, "fire", "Pet.created", "--entity", snapshot, "--format", "json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTrigger, resp.Error.Code)

	supported, ok := resp.Error.Details.([]interface{})
	require.True(t, ok)
	assert.Len(t, supported, 5)
	assert.Contains(t, supported, "Event.created")
}

func TestFire_EventSnapshot(t *testing.T) {
	tempDB(t)

	snapshot := filepath.Join(t.TempDir(), "booking.yaml")
	doc := "event:\n" +
		"  id: evt-1\n" +
		"  client_id: client-1\n" +
		"  type: Booking\n" +
		"  date: 2025-03-10T09:00:00+11:00\n"
	require.NoError(t, os.WriteFile(snapshot, []byte(doc), 0o644))

	out, err := runCLI(t, "fire", "Event.created", "--entity", snapshot)
	require.NoError(t, err)
	assert.Contains(t, out, "Fired Event.created against Event evt-1")
	assert.Contains(t, out, "CheckQuestionnaireReturned")

	// Replaying the same snapshot is suppressed by the firing log.
	again, err := runCLI(t, "fire", "Event.created", "--entity", snapshot)
	require.NoError(t, err)
	assert.Contains(t, again, "0 action(s)")
}

func TestFire_RejectsMalformedSnapshot(t *testing.T) {
	tempDB(t)

	snapshot := filepath.Join(t.TempDir(), "both.yaml")
	doc := "client:\n  id: c-1\n  name: Dana\nevent:\n  id: e-1\n  type: Booking\n  date: 2025-03-10T09:00:00Z\n"
	require.NoError(t, os.WriteFile(snapshot, []byte(doc), 0o644))

	_, err := runCLI(t, "fire", "Client.created", "--entity", snapshot)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBackupCommand(t *testing.T) {
	dbPath := tempDB(t)

	_, err := runCLI(t, "client", "add", "--name", "Dana")
	require.NoError(t, err)
	require.FileExists(t, dbPath)

	dir := filepath.Join(t.TempDir(), "copies")
	out, err := runCLI(t, "backup", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Backup written to")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "pbsadmin-")
}

func TestVerboseDiagnosticsStayOffStdout(t *testing.T) {
	tempDB(t)

	out, errOut, err := runCLICapture(t, "client", "add", "--name", "Dana", "--format", "json", "-v")
	require.NoError(t, err)

	// stdout holds exactly the JSON envelope; diagnostics go to stderr.
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, errOut, "action(s) evaluated")
}
