package host

import "context"

// Logger is the minimal logging abstraction used across modules.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config provides typed access to configuration values.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
}

// PluginConfig provides typed access to a plugin's own section.
type PluginConfig interface {
	GetPluginString(plugin, key string) string
	GetPluginInt(plugin, key string) int
	GetPluginBool(plugin, key string) bool
	GetPluginFloat64(plugin, key string) float64
}

// WorkerPool limits concurrency for host requests.
type WorkerPool interface {
	Submit(task func()) error
	SubmitWait(ctx context.Context, task func(ctx context.Context) error) error
	Shutdown(ctx context.Context) error
	Size() int
}

// NopLogger discards everything. Useful for tests and optional loggers.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any)   {}
func (NopLogger) Info(string, ...any)    {}
func (NopLogger) Warn(string, ...any)    {}
func (NopLogger) Error(string, ...any)   {}
func (n NopLogger) With(...any) Logger { return n }
