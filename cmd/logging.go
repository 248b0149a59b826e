package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("Invalid log level `%s`: %w", name, err)
	}
	return level, nil
}

// newLogger creates a logger which writes text to `stderr`.
// If `logFile` is not empty, every record is also appended to it as JSON.
func newLogger(levelName string, logFile string, stderr io.Writer) (*slog.Logger, func(), error) {
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}
	closeLog := func() {}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("Could not open log file `%s`: %w", logFile, err)
		}

		// the file always receives debug records
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeLog = func() { _ = file.Close() }
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}
