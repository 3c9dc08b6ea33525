package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level orders log severities; messages below the logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides leveled, timestamped logging for the whole run.
type Logger struct {
	level Level
	out   *log.Logger
	err   *log.Logger
}

// NewLogger creates an info-level Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return NewLoggerWithLevel(LevelInfo)
}

// NewLoggerWithLevel creates a Logger that drops messages below level.
func NewLoggerWithLevel(level Level) *Logger {
	return &Logger{
		level: level,
		out:   log.New(os.Stdout, "", 0),
		err:   log.New(os.Stderr, "", 0),
	}
}

// NewDiscardLogger returns a Logger that writes nowhere, for tests.
func NewDiscardLogger() *Logger {
	return &Logger{
		level: LevelError + 1,
		out:   log.New(io.Discard, "", 0),
		err:   log.New(io.Discard, "", 0),
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) emit(dst *log.Logger, level Level, tag, format string, args ...any) {
	if level < l.level {
		return
	}
	dst.Printf("[%s] %s %s", l.timestamp(), tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.emit(l.out, LevelInfo, "\033[32mINFO\033[0m ", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.emit(l.out, LevelWarn, "\033[33mWARN\033[0m ", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.emit(l.err, LevelError, "\033[31mERROR\033[0m", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.emit(l.out, LevelDebug, "\033[36mDEBUG\033[0m", format, args...)
}
