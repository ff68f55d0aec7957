package records

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pbsadmin/internal/timeutil"
)

// Backup copies the database file into backupDir under a timestamped
// name and returns the backup's path. The directory is created if
// missing. Run it while the application holds no open write
// transaction; the store keeps a single connection so copying the
// file between commands is safe.
func Backup(dbPath, backupDir string, clock *timeutil.Clock) (string, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("backup: open database %s: %w", dbPath, err)
	}
	defer src.Close()

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("backup: create backup dir %s: %w", backupDir, err)
	}

	stamp := clock.Now().Format("20060102-150405")
	name := fmt.Sprintf("pbsadmin-%s.db", stamp)
	dstPath := filepath.Join(backupDir, name)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("backup: create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("backup: copy to %s: %w", dstPath, err)
	}
	if err := dst.Sync(); err != nil {
		return "", fmt.Errorf("backup: sync %s: %w", dstPath, err)
	}
	return dstPath, nil
}
