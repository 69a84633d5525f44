// Package logging sets up the runtime slog logger. The terminal belongs to
// the TUI, so records go to a file under the user's state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slog"
)

// DefaultPath returns ~/.local/state/<app>/<app>.log.
func DefaultPath(app string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", app, app+".log"), nil
}

// ParseLevel maps a config name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New builds a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open returns a logger appending to path, creating its directory. When the
// file can't be opened the logger falls back to stderr. The returned func
// closes the file.
func Open(path string, level slog.Level) (*slog.Logger, func()) {
	if path == "" {
		return New(os.Stderr, level), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return New(os.Stderr, level), func() {}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return New(os.Stderr, level), func() {}
	}
	return New(f, level), func() {
		_ = f.Close()
	}
}
