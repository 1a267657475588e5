package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const logTimeFormat = "2006-01-02 15:04:05"

// newLogger returns a plain-text, timestamped and leveled logger writing to every w.
func newLogger(level string, w ...io.Writer) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return zerolog.Nop(), err
		}
	}

	writers := make([]io.Writer, 0, len(w))
	for _, out := range w {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: logTimeFormat,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// openLogFile opens path for appending, creating it when missing.
func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 - log path from user config is expected
}

// closeLogFile closes f and keeps the close error in *err unless an earlier error is already there.
func closeLogFile(f io.Closer, err *error) {
	if closeErr := f.Close(); closeErr != nil && *err == nil {
		*err = fmt.Errorf("closing log file: %w", closeErr)
	}
}
