package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound values in db.statement; production config forbids it
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBName          string
}

type contextKey string

const queryStartKey contextKey = "db_query_start"

// callbackRegistrar is satisfied by gorm's callback builders
type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// registerAround installs a before and an after hook on every gorm operation.
// pinBefore names, per operation, a callback the after hook must precede;
// an empty name leaves the after hook unpinned.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(op string) func(*gorm.DB), pinBefore func(op string) string) error {
	pin := func(op string) string {
		if pinBefore == nil {
			return ""
		}
		return pinBefore(op)
	}

	cb := db.Callback()
	ops := []struct {
		name   string
		before callbackRegistrar
		after  callbackRegistrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create").Before(pin("create"))},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query").Before(pin("query"))},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update").Before(pin("update"))},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete").Before(pin("delete"))},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row").Before(pin("row"))},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw").Before(pin("raw"))},
	}

	for _, op := range ops {
		if err := op.before.Register(prefix+":before_"+op.name, before); err != nil {
			return fmt.Errorf("register %s before %s: %w", prefix, op.name, err)
		}
		if err := op.after.Register(prefix+":after_"+op.name, after(op.name)); err != nil {
			return fmt.Errorf("register %s after %s: %w", prefix, op.name, err)
		}
	}
	return nil
}

// markQueryStart stores the statement start time for slow-query detection
func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
	}
}

func queryElapsed(db *gorm.DB) (time.Duration, bool) {
	if db.Statement.Context == nil {
		return 0, false
	}
	start, ok := db.Statement.Context.Value(queryStartKey).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// otelgorm names its after-hooks "otel:after:<op>", with select for query
func otelAfterHook(op string) string {
	if op == "query" {
		op = "select"
	}
	return "otel:after:" + op
}

// RegisterDBTracing installs otelgorm plus a hook that flags slow statements
// on the still-open otelgorm span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithoutMetrics()}
	if cfg.DBName != "" {
		opts = append(opts, otelgorm.WithDBName(cfg.DBName))
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}

	threshold := cfg.SlowQueryThresh
	after := func(string) func(*gorm.DB) {
		return func(db *gorm.DB) { annotateSlowQuery(db, threshold) }
	}
	if err := registerAround(db, "slow_query", markQueryStart, after, otelAfterHook); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func annotateSlowQuery(db *gorm.DB, threshold time.Duration) {
	if threshold <= 0 || db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	elapsed, ok := queryElapsed(db)
	if !ok || elapsed <= threshold {
		return
	}
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetAttributes(attribute.Bool("db.slow_query.failed", true))
	}
}
