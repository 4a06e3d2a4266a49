package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memoryExporter keeps exported log records for assertions
type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func newMemoryLoggerProvider(t *testing.T) (*LoggerProvider, *memoryExporter) {
	t.Helper()
	exp := &memoryExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)))
	lp := &LoggerProvider{provider: provider, logger: zap.NewNop()}
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	return lp, exp
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestNewZapOTELCore_DisabledIsNop(t *testing.T) {
	var nilProvider *LoggerProvider
	assert.False(t, NewZapOTELCore(nilProvider, "cosecha", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))

	disabled := &LoggerProvider{logger: zap.NewNop()}
	assert.False(t, NewZapOTELCore(disabled, "cosecha", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestNewZapOTELCore_ExportsAtOrAboveLevel(t *testing.T) {
	lp, exp := newMemoryLoggerProvider(t)
	logger := zap.New(NewZapOTELCore(lp, "cosecha", zapcore.WarnLevel))

	logger.Info("cart updated")
	logger.Warn("stock running low", zap.String("article_id", "a-1"))
	logger.Error("checkout failed")

	assert.Equal(t, []string{"stock running low", "checkout failed"}, exp.bodies())

	exp.mu.Lock()
	defer exp.mu.Unlock()
	assert.Equal(t, log.SeverityWarn, exp.records[0].Severity())
	found := false
	exp.records[0].WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key == "article_id" {
			found = kv.Value.AsString() == "a-1"
		}
		return true
	})
	assert.True(t, found)
}

func TestLevelFilterCore_WithKeepsLevel(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	core := (&levelFilterCore{Core: observed, minLevel: zapcore.InfoLevel}).
		With([]zapcore.Field{zap.String("component", "checkout")})
	logger := zap.New(core)

	logger.Debug("dropped")
	logger.Info("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "checkout", logs.All()[0].ContextMap()["component"])
}

func TestNewBridgedLogger_WritesToBothCores(t *testing.T) {
	lp, exp := newMemoryLoggerProvider(t)
	observed, logs := observer.New(zapcore.InfoLevel)

	logger := NewBridgedLogger(observed, NewZapOTELCore(lp, "cosecha", zapcore.InfoLevel))
	logger.Info("order placed", zap.String("order_number", "PED-20261017-0001"))

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, []string{"order placed"}, exp.bodies())
}
