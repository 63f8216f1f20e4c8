package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// ZapLogger implements ports.Logger on top of zap.
type ZapLogger struct {
	l *zap.Logger
}

// New builds a zap logger. format "json" selects the production encoder,
// anything else the development console encoder.
func New(levelStr, format string) *ZapLogger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return NewNop()
	}
	return &ZapLogger{l: l}
}

// NewZapAdapter wraps an existing *zap.Logger.
func NewZapAdapter(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l}
}

// NewTest writes through testing.TB.
func NewTest(t testing.TB) *ZapLogger {
	return &ZapLogger{l: zaptest.NewLogger(t)}
}

// NewNop discards everything.
func NewNop() *ZapLogger {
	return &ZapLogger{l: zap.NewNop()}
}

// Zap exposes the underlying logger for middleware.
func (z *ZapLogger) Zap() *zap.Logger {
	return z.l
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}

func (z *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	z.l.Debug(msg, mapToZapFields(fields)...)
}

func (z *ZapLogger) Info(msg string, fields map[string]interface{}) {
	z.l.Info(msg, mapToZapFields(fields)...)
}

func (z *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	z.l.Warn(msg, mapToZapFields(fields)...)
}

func (z *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	zf := mapToZapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	z.l.Error(msg, zf...)
}

// With returns a child logger carrying fields on every entry.
func (z *ZapLogger) With(fields map[string]interface{}) *ZapLogger {
	return &ZapLogger{l: z.l.With(mapToZapFields(fields)...)}
}

func mapToZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
