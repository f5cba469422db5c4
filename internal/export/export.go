// Package export writes training data exports to disk.
//
// The file holds exactly the backend's export payload. Indentation is the
// only change applied; keys, values and ordering are preserved.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName returns the timestamped name used for an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("training-data-%d.json", t.UnixMilli())
}

// Write stores payload under dir and returns the written path. The directory
// is created when missing.
func Write(dir string, payload []byte, now time.Time) (string, error) {
	if !json.Valid(payload) {
		return "", fmt.Errorf("export payload is not valid JSON")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return "", fmt.Errorf("formatting export: %w", err)
	}
	buf.WriteByte('\n')

	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
