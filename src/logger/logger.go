package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"macro-observer/src/models"
)

// -----------------------------------------------------------------------------

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

// ParseLevel maps a config string to a Level. Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// -----------------------------------------------------------------------------

// Logger provides named, levelled logging
type Logger struct {
	name   string
	logger *log.Logger
	level  Level
	exit   func(int)
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance. cfg may be nil (INFO level).
func NewLogger(cfg *models.MConfig, name string) *Logger {
	level := LevelInfo
	if cfg != nil {
		level = ParseLevel(cfg.LogLevel)
	}
	return NewWriterLogger(os.Stdout, level, name)
}

// NewWriterLogger creates a Logger writing to w.
func NewWriterLogger(w io.Writer, level Level, name string) *Logger {
	return &Logger{
		name:   name,
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
		exit:   os.Exit,
	}
}

// -----------------------------------------------------------------------------

// Named returns a logger sharing output and level under another name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, logger: l.logger, level: l.level, exit: l.exit}
}

// -----------------------------------------------------------------------------

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s: %s", l.name, level, msg)
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.write(LevelWarning, format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.write(LevelCritical, format, args...)
	l.exit(1)
}
