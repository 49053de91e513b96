package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger. Call sites use the *w methods with snake_case messages.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
}

func toZapLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder

	if strings.EqualFold(strings.TrimSpace(format), FormatJSON) {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func newLogger(cfg Config, out io.Writer) *Logger {
	level := zap.NewAtomicLevelAt(toZapLevel(cfg.Level))
	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(zapcore.AddSync(out)), level)
	return &Logger{
		SugaredLogger: zap.New(core, zap.AddCaller()).Sugar(),
		level:         level,
	}
}

func newZapLogger(cfg Config) *Logger {
	return newLogger(cfg, os.Stdout)
}

// SetLevel changes the minimum enabled level at runtime.
func (l *Logger) SetLevel(levelStr string) {
	l.level.SetLevel(toZapLevel(levelStr))
}

// Enabled reports whether the given level would be written.
func (l *Logger) Enabled(levelStr string) bool {
	return l.level.Enabled(toZapLevel(levelStr))
}
