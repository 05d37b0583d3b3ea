package logger_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenexcards/tenex-api/internal/platform/logger"
)

func TestSetupReturnsLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case level", logLevel: "INFO"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.Setup(tt.logLevel)
			assert.NotNil(t, log, "Setup should always return a usable logger")
			assert.Same(t, log, slog.Default(), "Setup should install the logger as default")
		})
	}
}

func TestWithLoggerAndFromContext(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	// Without an attached logger, FromContext falls back to the default.
	assert.Same(t, slog.Default(), logger.FromContext(ctx))

	ctx = logger.WithLogger(ctx, base)
	assert.Same(t, base, logger.FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	def := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("empty context returns provided default", func(t *testing.T) {
		assert.Same(t, def, logger.FromContextOrDefault(context.Background(), def))
	})

	t.Run("nil default returns global default", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
	})

	t.Run("context logger wins over default", func(t *testing.T) {
		attached := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := logger.WithLogger(context.Background(), attached)
		assert.Same(t, attached, logger.FromContextOrDefault(ctx, def))
	})
}
