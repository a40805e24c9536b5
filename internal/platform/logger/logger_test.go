package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN", ""} {
		log, err := Setup(level)
		require.NoError(t, err, "level %q", level)
		require.NotNil(t, log)
	}

	_, err := Setup("verbose")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	base := slog.Default()
	assert.Same(t, base, FromContext(context.Background()))

	scoped := slog.Default().With(slog.String("component", "test"))
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.Default().With(slog.String("component", "svc"))
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))

	scoped := slog.Default().With(slog.String("component", "req"))
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContextOrDefault(ctx, fallback))

	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
}
