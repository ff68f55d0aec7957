// Package records manages the on-disk client records area: one folder
// per client under a records root, plus file helpers the admin surface
// uses to stash questionnaires, protocols and downloaded documents.
package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir returns the default client records root under the user's
// home directory, creating it if missing.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("records: resolve home directory: %w", err)
	}
	dir := filepath.Join(home, "Documents", "PBS_Admin", "Client_Records")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("records: create records root: %w", err)
	}
	return dir, nil
}

// CreateClientFolder creates a new folder for a client. It fails if
// the folder already exists, so an accidental re-create never touches
// an existing client's records.
func CreateClientFolder(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("records: folder already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("records: stat %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("records: create folder %s: %w", path, err)
	}
	return nil
}

// ReadTextFile returns the content of an existing text file.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("records: read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteTextFile writes content to path. The parent directory must
// already exist; files only ever land inside a client folder that was
// created explicitly.
func WriteTextFile(path, content string) error {
	return WriteBinaryFile(path, []byte(content))
}

// WriteBinaryFile writes data to path. The parent directory must
// already exist.
func WriteBinaryFile(path string, data []byte) error {
	if err := requireParent(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("records: write %s: %w", path, err)
	}
	return nil
}

// DownloadFile fetches url and writes the body to path. The parent
// directory must exist and a non-2xx response is an error. A nil
// client falls back to http.DefaultClient.
func DownloadFile(ctx context.Context, client *http.Client, url, path string) error {
	if client == nil {
		client = http.DefaultClient
	}
	if err := requireParent(path); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("records: build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("records: download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("records: download %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("records: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("records: write %s: %w", path, err)
	}
	return nil
}

// ListFiles returns the full paths of regular files directly under
// dir, sorted by name. A non-empty pattern keeps only file names
// containing it as a substring.
func ListFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("records: list %s: %w", dir, err)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern != "" && !strings.Contains(entry.Name(), pattern) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func requireParent(path string) error {
	parent := filepath.Dir(path)
	info, err := os.Stat(parent)
	if os.IsNotExist(err) {
		return fmt.Errorf("records: parent directory does not exist: %s", parent)
	}
	if err != nil {
		return fmt.Errorf("records: stat %s: %w", parent, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("records: parent is not a directory: %s", parent)
	}
	return nil
}
