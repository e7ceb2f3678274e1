package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(t *testing.T, obsLevel zapcore.Level, gormLevel gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(obsLevel)
	return NewGormLogger(zap.New(core), gormLevel, opts...), recorded
}

func tracedQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) {
		return sql, rows
	}
}

func TestNewGormLogger(t *testing.T) {
	gormLog, _ := newObservedGormLogger(t, zapcore.InfoLevel, gormlogger.Info)

	require.NotNil(t, gormLog)
	assert.Equal(t, gormlogger.Info, gormLog.level)
	assert.True(t, gormLog.skipNotFound)
	var _ gormlogger.Interface = gormLog
}

func TestGormLoggerOptions(t *testing.T) {
	gormLog, _ := newObservedGormLogger(t, zapcore.InfoLevel, gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
	assert.False(t, gormLog.skipNotFound)
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(t, zapcore.InfoLevel, gormlogger.Info)

	clone := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.level)
	cloned, ok := clone.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, cloned.level)
}

func TestGormLogger_LevelGating(t *testing.T) {
	t.Run("info logged at info level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.InfoLevel, gormlogger.Info)

		gormLog.Info(context.Background(), "migrating %s", "partners")

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "migrating partners")
	})

	t.Run("info suppressed when silent", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.InfoLevel, gormlogger.Silent)

		gormLog.Info(context.Background(), "migrating")

		assert.Empty(t, recorded.All())
	})

	t.Run("warn logged at warn level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.WarnLevel, gormlogger.Warn)

		gormLog.Warn(context.Background(), "retrying %d", 2)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	})

	t.Run("error logged at error level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.ErrorLevel, gormlogger.Error)

		gormLog.Error(context.Background(), "connection lost")

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("failed query logs SQL Error", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.ErrorLevel, gormlogger.Error)

		gormLog.Trace(context.Background(), time.Now(), tracedQuery("SELECT * FROM invoice_requests", 0), errors.New("boom"))

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SQL Error")
	})

	t.Run("record not found skipped by default", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.ErrorLevel, gormlogger.Error)

		gormLog.Trace(context.Background(), time.Now(), tracedQuery("SELECT * FROM partners WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("slow query logged as warning", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.WarnLevel, gormlogger.Warn,
			WithSlowThreshold(time.Nanosecond))

		begin := time.Now().Add(-time.Second)
		gormLog.Trace(context.Background(), begin, tracedQuery("SELECT * FROM sale_orders", 10), nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SLOW SQL")
	})

	t.Run("normal query logged at debug", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.DebugLevel, gormlogger.Info)

		gormLog.Trace(context.Background(), time.Now(), tracedQuery("SELECT * FROM invoices", 5), nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SQL Query")
		assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.DebugLevel, gormlogger.Silent)

		gormLog.Trace(context.Background(), time.Now(), tracedQuery("SELECT 1", 1), nil)

		assert.Empty(t, recorded.All())
	})

	t.Run("request id carried from context", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, zapcore.DebugLevel, gormlogger.Info)

		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
		gormLog.Trace(ctx, time.Now(), tracedQuery("SELECT * FROM invoices", 1), nil)

		logs := recorded.All()
		require.Len(t, logs, 1)

		found := false
		for _, field := range logs[0].Context {
			if field.Key == "request_id" {
				found = true
				assert.Equal(t, "req-42", field.String)
			}
		}
		assert.True(t, found, "request_id should be in log fields")
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
