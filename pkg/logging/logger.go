package logging

import (
	"fmt"
	"log"
)

// Logger is the main logger type. It has the property that it still
// functions if nil, but logs nothing in that case — this lets every
// constructor in the engine accept a *Logger unconditionally. It is safe
// for concurrent use.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
	// level is the minimum level this logger will emit.
	level Level
}

// RootLogger is the root logger from which all other loggers derive. It
// defaults to LevelInfo.
var RootLogger = &Logger{level: LevelInfo}

// NewLogger creates a fresh root logger at the specified level.
func NewLogger(level Level) *Logger {
	return &Logger{level: level}
}

// Sublogger creates a new sublogger with the specified name.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{prefix: prefix, level: l.level}
}

func (l *Logger) output(level Level, calldepth int, line string) {
	if l == nil || level > l.level {
		return
	}
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// Error logs a fatal-class error.
func (l *Logger) Error(v ...interface{}) {
	l.output(LevelError, 3, fmt.Sprint(v...))
}

// Errorf logs a fatal-class error with formatting.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output(LevelError, 3, fmt.Sprintf(format, v...))
}

// Warn logs a non-fatal error.
func (l *Logger) Warn(v ...interface{}) {
	l.output(LevelWarn, 3, fmt.Sprint(v...))
}

// Warnf logs a non-fatal error with formatting.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(LevelWarn, 3, fmt.Sprintf(format, v...))
}

// Info logs basic execution information.
func (l *Logger) Info(v ...interface{}) {
	l.output(LevelInfo, 3, fmt.Sprint(v...))
}

// Infof logs basic execution information with formatting.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.output(LevelInfo, 3, fmt.Sprintf(format, v...))
}

// Debug logs advanced execution information.
func (l *Logger) Debug(v ...interface{}) {
	l.output(LevelDebug, 3, fmt.Sprint(v...))
}

// Debugf logs advanced execution information with formatting.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output(LevelDebug, 3, fmt.Sprintf(format, v...))
}
