// Package util provides low-level helpers shared by all other packages.
package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogNormal  LogLevel = 1
	LogVerbose LogLevel = 2
	LogDebug   LogLevel = 3
)

// Logger writes levelled messages to stderr with optional timestamps
// and level prefixes.  An optional activity sink mirrors operational
// events ([LOG] lines) into an append-only file; writing to the sink
// never fails the caller.
type Logger struct {
	level      LogLevel
	output     io.Writer
	mu         sync.Mutex
	timestamps bool // if true, prepend timestamps to console lines
	activity   io.WriteCloser
	sinkBroken bool // set after the first failed activity write
}

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = quiet, 1 = normal, 2 = verbose, 3 = debug).
func NewLogger(verbosity int) *Logger {
	return &Logger{
		level:      LogLevel(verbosity),
		output:     os.Stderr,
		timestamps: verbosity >= 3, // auto-enable timestamps in debug mode
	}
}

// SetTimestamps enables or disables timestamp prefixes.
func (l *Logger) SetTimestamps(on bool) { l.timestamps = on }

// SetOutput overrides the output writer (default: os.Stderr).
func (l *Logger) SetOutput(w io.Writer) { l.output = w }

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// OpenActivityFile attaches an append-only activity log at path,
// creating the file with a header when it does not exist yet.
func (l *Logger) OpenActivityFile(path string) error {
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	if os.IsNotExist(statErr) {
		fmt.Fprintln(f, "acdbot activity log")
		fmt.Fprintln(f, "==================================================")
	}
	l.mu.Lock()
	l.activity = f
	l.sinkBroken = false
	l.mu.Unlock()
	return nil
}

// SetActivitySink attaches an arbitrary writer as the activity sink.
func (l *Logger) SetActivitySink(w io.WriteCloser) {
	l.mu.Lock()
	l.activity = w
	l.sinkBroken = false
	l.mu.Unlock()
}

// Close releases the activity sink, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.activity == nil {
		return nil
	}
	err := l.activity.Close()
	l.activity = nil
	return err
}

// Activity records an operational event: printed to the console with a
// [LOG] prefix and appended, timestamped, to the activity file.  Sink
// failures are reported to stderr once and then swallowed; callers
// never see them.
func (l *Logger) Activity(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	entry := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), msg)
	fmt.Fprintf(l.output, "[LOG] %s\n", entry)

	if l.activity == nil {
		return
	}
	if _, err := fmt.Fprintln(l.activity, entry); err != nil && !l.sinkBroken {
		l.sinkBroken = true
		fmt.Fprintf(os.Stderr, "[ERR] activity log write failed: %v\n", err)
	}
}

// Info prints when verbosity ≥ 1.  Prefixed with [INF].
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write("INF", format, args...)
	}
}

// Warn prints when verbosity ≥ 1.  Prefixed with [WRN].
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write("WRN", format, args...)
	}
}

// Verbose prints when verbosity ≥ 2.  Prefixed with [VRB].
func (l *Logger) Verbose(format string, args ...interface{}) {
	if l.level >= LogVerbose {
		l.write("VRB", format, args...)
	}
}

// Debug prints when verbosity ≥ 3.  Prefixed with [DBG].
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogDebug {
		l.write("DBG", format, args...)
	}
}

// Error always prints regardless of verbosity.  Prefixed with [ERR].
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("ERR", format, args...)
}

func (l *Logger) write(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.timestamps {
		ts := time.Now().Format("15:04:05.000")
		fmt.Fprintf(l.output, "%s [%s] %s\n", ts, level, msg)
	} else {
		fmt.Fprintf(l.output, "[%s] %s\n", level, msg)
	}
}
