package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerDefaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, l)
	// Exercising the call paths; output goes to stdout.
	l.Info("hello", String("k", "v"))
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "s", Value: "x"}, String("s", "x"))
	assert.Equal(t, Field{Key: "n", Value: 7}, Int("n", 7))
	assert.Equal(t, Field{Key: "f", Value: 2.5}, Float64("f", 2.5))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestObservedFieldsAndLevels(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	l.Info("aggregation complete",
		String("source", "records.csv"),
		Int("regions", 18),
		Float64("pct", 23.08),
	)
	l.Warn("unmatched regions", Strings("keys", []string{"KEC B"}))

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "aggregation complete", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "records.csv", fields["source"])
	assert.Equal(t, int64(18), fields["regions"])
}

func TestWithAndNamed(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("pipeline").With(String("run_id", "r1"))

	l.Debug("start")
	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline", entries[0].LoggerName)
	assert.Equal(t, "r1", entries[0].ContextMap()["run_id"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	// Must not panic and must be chainable.
	l.With(String("a", "b")).Named("x").Info("ignored")
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored.
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
