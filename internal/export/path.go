package export

import (
	"os"
	"path/filepath"
)

// DefaultDir returns where exports land when no directory is configured:
// the user's Downloads folder if it exists, otherwise the working directory.
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dl := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dl); err == nil && info.IsDir() {
			return dl
		}
	}
	return "."
}
