package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// absPath resolves p against the working directory
func absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, _ := filepath.Abs(p)
	return abs
}

// SetupLogging installs the default text logger on w
func SetupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// OpenOutput creates the file at path along with its parent directories
func OpenOutput(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(absPath(path)), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
