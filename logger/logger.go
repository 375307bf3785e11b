package logger

import (
	"context"
	"errors"
	"time"
)

// ErrRecordNotFound record not found error
var ErrRecordNotFound = errors.New("record not found")

// LogLevel log level
type LogLevel int

const (
	// Silent silent log level
	Silent LogLevel = iota + 1
	// Error error log level
	Error
	// Warn warn log level
	Warn
	// Info info log level
	Info
)

// Config logger config
type Config struct {
	SlowThreshold             time.Duration
	LogLevel                  LogLevel
	IgnoreRecordNotFoundError bool
	ParameterizedQueries      bool
}

// Interface logger interface
type Interface interface {
	LogMode(LogLevel) Interface
	Info(ctx context.Context, msg string, data ...interface{})
	Warn(ctx context.Context, msg string, data ...interface{})
	Error(ctx context.Context, msg string, data ...interface{})
	Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error)
}

// Default default logger, zerolog to stdout at warn level
var Default = NewZerologLoggerWithConfig(Config{
	SlowThreshold: 200 * time.Millisecond,
	LogLevel:      Warn,
})

// Discard discards everything
var Discard = Default.LogMode(Silent)
