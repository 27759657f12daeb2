// ABOUTME: slog setup shared by subcommands
// ABOUTME: Logs to a file, mirrored to the console without the TUI
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Resonate-Protocol/voicepool-go/internal/config"
)

// setupLogging opens the log file and returns a logger writing to it, and
// to console as well unless a full screen UI owns the terminal.
func setupLogging(s *config.Settings, console io.Writer, tui bool) (*slog.Logger, io.Closer, error) {
	level, err := s.Level()
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(s.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening log file: %w", err)
	}

	var w io.Writer = f
	if !tui && console != nil {
		w = io.MultiWriter(console, f)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}
