package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("returns the attached logger", func(t *testing.T) {
		log := zap.NewNop()
		ctx := WithContext(context.Background(), log)

		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("returns a no-op logger when none attached", func(t *testing.T) {
		log := FromContext(context.Background())

		require.NotNil(t, log)
		// Logging through it must not panic.
		log.Info("ignored")
	})
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, log := WithRequestID(context.Background(), base, "req-7")

	assert.Equal(t, "req-7", GetRequestID(ctx))
	assert.Same(t, log, FromContext(ctx))

	log.Info("something happened")
	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "req-7", logs[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, log := WithUserID(context.Background(), base, "user-99")

	assert.Equal(t, "user-99", GetUserID(ctx))

	log.Info("approved")
	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "user-99", logs[0].ContextMap()["user_id"])
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}

func TestWithRequestID_StacksWithUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, log := WithRequestID(context.Background(), base, "req-1")
	ctx, log = WithUserID(ctx, log, "user-2")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-2", GetUserID(ctx))

	log.Info("both fields present")
	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-2", fields["user_id"])
}
