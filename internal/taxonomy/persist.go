package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// ErrWrite marks a taxonomy mutation that could not be persisted. It is
// recoverable by construction: the backup is always written before any
// mutation touches the document.
var ErrWrite = eris.New("taxonomy: write error")

// Backup copies the document at path into backupDir (or path's directory
// when backupDir is empty) under a timestamped filename. Backups are never
// deleted automatically.
func Backup(path, backupDir string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "taxonomy: read for backup %s", path)
	}

	dir := backupDir
	if dir == "" {
		dir = filepath.Dir(path)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "taxonomy: create backup dir %s", dir)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	stamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", base, stamp, ext))

	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "taxonomy: write backup %s", backupPath)
	}

	zap.L().Info("taxonomy: backup written",
		zap.String("path", backupPath),
		zap.Int("bytes", len(data)),
	)

	return backupPath, nil
}

// Save serializes doc and atomically replaces the document at path
// (write-to-temp then rename), so a crash mid-write never leaves a
// truncated document behind.
func Save(doc *model.Document, path string) error {
	data, err := marshal(doc, path)
	if err != nil {
		return eris.Wrapf(ErrWrite, "marshal: %v", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".taxonomy-*")
	if err != nil {
		return eris.Wrapf(ErrWrite, "create temp: %v", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return eris.Wrapf(ErrWrite, "write temp: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(ErrWrite, "close temp: %v", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(ErrWrite, "rename %s: %v", path, err)
	}

	zap.L().Info("taxonomy: document saved",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)

	return nil
}
