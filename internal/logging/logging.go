// Package logging builds the logrus logger shared by the CLI and library code.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/regdesk/pkg/types"
)

// New returns a logger writing to w (stderr when nil) and, when cfg.File is
// set, to that file as well. Unknown levels fall back to info. The returned
// closer releases the log file and is never nil.
func New(cfg types.LoggingConfig, w io.Writer) (*logrus.Logger, io.Closer, error) {
	if w == nil {
		w = os.Stderr
	}
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	var closer io.Closer = nopCloser{}
	writers := []io.Writer{w}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		writers = append(writers, f)
		closer = f
	}
	log.SetOutput(io.MultiWriter(writers...))
	return log, closer, nil
}

// Discard returns a logger that drops everything. Used as a default when a
// caller passes no logger.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
