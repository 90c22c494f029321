// Package logger is a small leveled logger writing to stderr or a file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Environment variables read by FromEnv.
const (
	envLogPath = "SALIN_LOG"
	envDebug   = "SALIN_DEBUG"
)

// Logger implements salin.Logger on top of the standard log package.
type Logger struct {
	std   *log.Logger
	file  *os.File
	debug bool
	mu    sync.Mutex
}

// New writes to w.
func New(w io.Writer) *Logger {
	return &Logger{std: log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)}
}

// Open appends to the file at path, creating parent directories if needed.
func Open(path string) (*Logger, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) // #nosec G304 - operator configured
	if err != nil {
		return nil, err
	}
	l := New(f)
	l.file = f
	return l, nil
}

// FromEnv logs to SALIN_LOG when set and to stderr otherwise. SALIN_DEBUG
// enables debug output.
func FromEnv() (*Logger, error) {
	var (
		l   *Logger
		err error
	)
	if path := os.Getenv(envLogPath); path != "" {
		l, err = Open(path)
		if err != nil {
			return nil, err
		}
	} else {
		l = New(os.Stderr)
	}
	l.debug = os.Getenv(envDebug) != ""
	return l, nil
}

// SetDebug toggles debug output.
func (l *Logger) SetDebug(on bool) {
	l.mu.Lock()
	l.debug = on
	l.mu.Unlock()
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Infof logs informational messages.
func (l *Logger) Infof(format string, args ...any) { l.write("INFO", format, args...) }

// Warnf logs warnings.
func (l *Logger) Warnf(format string, args ...any) { l.write("WARN", format, args...) }

// Errorf logs errors.
func (l *Logger) Errorf(format string, args ...any) { l.write("ERROR", format, args...) }

// Debugf logs only when debug output is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	l.mu.Lock()
	on := l.debug
	l.mu.Unlock()
	if on {
		l.write("DEBUG", format, args...)
	}
}

func (l *Logger) write(level string, format string, args ...any) {
	l.std.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
