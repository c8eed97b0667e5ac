// Package snapshot keeps flat-file dumps of fetched pages and analysis results.
package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Files reads and writes plain UTF-8 text files.
// Failures are logged and never returned.
type Files struct {
	logger zerolog.Logger
}

// NewFiles creates a file helper that reports failures to logger
func NewFiles(logger zerolog.Logger) *Files {
	return &Files{logger: logger}
}

// Save writes content to path, creating parent directories. It reports whether the write succeeded.
func (f *Files) Save(path, content string) bool {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			f.logger.Error().Err(err).Str("path", path).Msg("error writing to file")
			return false
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.logger.Error().Err(err).Str("path", path).Msg("error writing to file")
		return false
	}
	return true
}

// SaveLines writes items joined by newlines
func (f *Files) SaveLines(path string, items []string) bool {
	return f.Save(path, strings.Join(items, "\n"))
}

// Read returns the file content, or "" if it cannot be read
func (f *Files) Read(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		f.logger.Error().Err(err).Str("path", path).Msg("error reading file")
		return ""
	}
	return string(data)
}
