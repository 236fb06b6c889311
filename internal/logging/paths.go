package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir is ~/.structsearch/logs, falling back to the temp
// directory when no home directory is available.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".structsearch", "logs")
	}
	return filepath.Join(home, ".structsearch", "logs")
}

// DefaultLogPath is the default CLI log file.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "structsearch.log")
}
