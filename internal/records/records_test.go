package records

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbsadmin/internal/timeutil"
)

func TestCreateClientFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Dana_Reyes")

	require.NoError(t, CreateClientFolder(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	err = CreateClientFolder(dir)
	require.Error(t, err, "existing folder is never recreated")
	assert.Contains(t, err.Error(), "already exists")
}

func TestWriteAndReadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")

	require.NoError(t, WriteTextFile(path, "session notes"))

	content, err := ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "session notes", content)
}

func TestReadTextFile_Missing(t *testing.T) {
	_, err := ReadTextFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestWrite_RequiresExistingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no_such_client", "notes.txt")

	err := WriteTextFile(path, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent directory does not exist")

	err = WriteBinaryFile(path, []byte{1, 2, 3})
	require.Error(t, err)
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 protocol"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "protocol.pdf")

	require.NoError(t, DownloadFile(context.Background(), srv.Client(), srv.URL, path))

	content, err := ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 protocol", content)
}

func TestDownloadFile_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "protocol.pdf")
	err := DownloadFile(context.Background(), srv.Client(), srv.URL, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
	assert.NoFileExists(t, path)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteTextFile(filepath.Join(dir, "intake_form.txt"), "a"))
	require.NoError(t, WriteTextFile(filepath.Join(dir, "protocol.pdf"), "b"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	all, err := ListFiles(dir, "")
	require.NoError(t, err)
	require.Len(t, all, 2, "directories are excluded")
	assert.Equal(t, filepath.Join(dir, "intake_form.txt"), all[0])

	matched, err := ListFiles(dir, "protocol")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, filepath.Join(dir, "protocol.pdf"), matched[0])

	_, err = ListFiles(filepath.Join(dir, "missing"), "")
	require.Error(t, err)
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pbsadmin.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("sqlite bytes"), 0o644))

	clock, err := timeutil.NewFixed(timeutil.DefaultTimezone, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	backupDir := filepath.Join(dir, "backups")
	path, err := Backup(dbPath, backupDir, clock)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupDir, "pbsadmin-20250301-090000.db"), path)

	copied, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite bytes", string(copied))

	// Same instant means same name, and an existing backup is never
	// overwritten.
	_, err = Backup(dbPath, backupDir, clock)
	require.Error(t, err)
}

func TestBackup_MissingDatabase(t *testing.T) {
	clock, err := timeutil.New(timeutil.DefaultTimezone)
	require.NoError(t, err)

	_, err = Backup(filepath.Join(t.TempDir(), "absent.db"), t.TempDir(), clock)
	require.Error(t, err)
}
