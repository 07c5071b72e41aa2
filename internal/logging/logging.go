// Package logging builds the zerolog logger used by the command line interface.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB   = 10
	logMaxBackups  = 3
	logMaxAgeDays  = 28
	consoleTimeFmt = time.Kitchen
)

// Options select level and outputs of the logger.
type Options struct {
	// Level is a zerolog level name; empty means info
	Level string

	// Verbose forces debug level, Quiet forces warn level
	Verbose bool
	Quiet   bool

	// File additionally writes JSON lines to a rotating log file
	File string

	// Console receives human-readable output; nil means stderr
	Console io.Writer
}

// New creates a logger. The returned closer releases the log file, if any.
func New(opts Options) (zerolog.Logger, io.Closer) {
	writer := selectOutput(opts.Console)

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		writer = zerolog.MultiLevelWriter(writer, lj)
		closer = lj
	}

	return zerolog.New(writer).Level(SelectLevel(opts)).With().Timestamp().Logger(), closer
}

// SelectLevel determines the log level. Verbose wins over quiet, both win over Level.
func SelectLevel(opts Options) zerolog.Level {
	switch {
	case opts.Verbose:
		return zerolog.DebugLevel
	case opts.Quiet:
		return zerolog.WarnLevel
	}

	if opts.Level == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// selectOutput uses a console writer on terminals without NO_COLOR and JSON otherwise.
func selectOutput(console io.Writer) io.Writer {
	if console != nil {
		return zerolog.ConsoleWriter{Out: console, TimeFormat: consoleTimeFmt, NoColor: true}
	}

	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFmt}
	}
	return os.Stderr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
