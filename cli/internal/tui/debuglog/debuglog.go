// ABOUTME: slog logger for the CLI that writes to a file in the state dir
// ABOUTME: Keeps diagnostics out of the terminal while capturing errors

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/markalston/wusuleable-web/logger"
)

// FileName is the log file created inside the state directory.
const FileName = "debug.log"

// Open returns a logger appending to <stateDir>/debug.log and a close
// function. An empty stateDir yields a logger that discards everything.
// WUSULEABLE_DEBUG=1 lowers the level to debug.
func Open(stateDir string) (*slog.Logger, func() error, error) {
	if stateDir == "" {
		return Discard(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return Discard(), func() error { return nil }, err
	}

	f, err := os.OpenFile(filepath.Join(stateDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return Discard(), func() error { return nil }, err
	}

	level := "info"
	if v := strings.ToLower(os.Getenv("WUSULEABLE_DEBUG")); v == "1" || v == "true" {
		level = "debug"
	}

	return logger.New(f, level, "text"), f.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
