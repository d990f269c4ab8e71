package denyset

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with denyset-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// LogBuild logs the outcome of building a Denylist.
func (l *Logger) LogBuild(values, intervals, groups int, err error) {
	if err != nil {
		l.Error("build failed", "error", err)
		return
	}
	l.Debug("build completed",
		"values", values,
		"intervals", intervals,
		"groups", groups,
	)
}

// LogVerify logs the outcome of a cross-consistency sweep.
func (l *Logger) LogVerify(domainMax uint32, strategies int, err error) {
	if err != nil {
		l.Error("verify failed",
			"domain_max", domainMax,
			"error", err,
		)
		return
	}
	l.Debug("verify completed",
		"domain_max", domainMax,
		"strategies", strategies,
	)
}
