package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger implements gorm's logger.Interface on top of our Logger
type GormLogger struct {
	logger    Logger
	slowQuery time.Duration
}

// NewGormLogger creates a new GORM logger instance
func NewGormLogger(logger Logger, slowQuery time.Duration) gormlogger.Interface {
	return &GormLogger{
		logger:    logger,
		slowQuery: slowQuery,
	}
}

// LogMode returns the logger itself; level filtering happens in the
// underlying logger configuration.
func (l *GormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logger.LogInfo(msg, map[string]interface{}{"args": args})
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logger.LogWarn(msg, map[string]interface{}{"args": args})
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logger.LogError(fmt.Errorf(msg, args...), "GORM error")
}

// Trace logs SQL execution with timing, flagging slow queries
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := map[string]interface{}{
		"sql":     sql,
		"rows":    rows,
		"elapsed": elapsed,
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		fields["error"] = err.Error()
		l.logger.LogWarn("Query failed", fields)
	case elapsed > l.slowQuery:
		l.logger.LogWarn("Slow query", fields)
	default:
		l.logger.LogDebug("Query executed", fields)
	}
}
