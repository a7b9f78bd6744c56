package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/liuran001/MusicHost-Go/host"
)

// Options configures a Logger.
type Options struct {
	Level     string
	Format    string // text, json or pretty
	AddSource bool
	// Dir receives a daily log file. Empty disables file output.
	Dir string
	// Output overrides stdout, mainly for tests.
	Output io.Writer
}

// Logger wraps slog.Logger to satisfy host.Logger.
type Logger struct {
	logger  *slog.Logger
	logFile *os.File // Keep reference to close on shutdown
}

// New creates a new Logger with configurable output format.
func New(opts Options) (*Logger, error) {
	stdout := opts.Output
	if stdout == nil {
		stdout = os.Stdout
	}

	logFile, output, err := logOutput(opts.Dir, stdout)
	if err != nil {
		return nil, err
	}

	level := parseLevel(opts.Level)
	handler := newHandler(strings.ToLower(strings.TrimSpace(opts.Format)), output, level, opts.AddSource)

	return &Logger{logger: slog.New(handler), logFile: logFile}, nil
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newHandler(format string, output io.Writer, level slog.Level, addSource bool) slog.Handler {
	switch format {
	case "json":
		return slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level, AddSource: addSource})
	case "pretty":
		return charmlog.NewWithOptions(output, charmlog.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
			ReportCaller:    addSource,
			TimeFormat:      time.DateTime,
		})
	default:
		return slog.NewTextHandler(output, &slog.HandlerOptions{Level: level, AddSource: addSource})
	}
}

// With returns a child logger with additional fields.
func (l *Logger) With(args ...any) host.Logger {
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}

func logOutput(dir string, stdout io.Writer) (*os.File, io.Writer, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, stdout, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	fileName := time.Now().Local().Format("2006-01-02") + ".log"
	filePath := filepath.Join(dir, fileName)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}

	if file == nil {
		return nil, nil, errors.New("log file handle is nil")
	}

	return file, io.MultiWriter(stdout, file), nil
}

// Close closes the log file handle.
func (l *Logger) Close() error {
	if l == nil || l.logFile == nil {
		return nil
	}
	return l.logFile.Close()
}
