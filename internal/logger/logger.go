package logger

import (
	"io"
	"sync"
)

const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the minimum level and the line encoding. Unknown values fall back to info and console.
type Config struct {
	Level  string
	Format string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. Only the first call's cfg is used.
func Get(cfg Config) *Logger {
	once.Do(func() {
		globalLogger = New(cfg)
	})
	return globalLogger
}

// New builds a standalone logger, for tests and tools that must not share the process-wide one.
func New(cfg Config) *Logger {
	return newZapLogger(cfg)
}

// NewWithOutput is New writing to out instead of stdout.
func NewWithOutput(cfg Config, out io.Writer) *Logger {
	return newLogger(cfg, out)
}
