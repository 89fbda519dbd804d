package object

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CommitLogEvent describes a commit, abort, undo or redo for logging.
type CommitLogEvent struct {
	Action   Action
	TxnID    uuid.UUID
	Objects  int
	Duration time.Duration
	Err      error
}

// CommitLogger records transaction events.
type CommitLogger interface {
	LogCommit(CommitLogEvent)
}

// CommitLoggerFunc adapts a function to CommitLogger.
type CommitLoggerFunc func(CommitLogEvent)

// LogCommit implements CommitLogger.
func (f CommitLoggerFunc) LogCommit(event CommitLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopCommitLogger struct{}

func (noopCommitLogger) LogCommit(CommitLogEvent) {}

// WithCommitLogger attaches a commit logger to an arena or transaction.
func WithCommitLogger(logger CommitLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopCommitLogger{}
			return
		}
		cfg.logger = logger
	}
}

type slogCommitLogger struct {
	logger *slog.Logger
}

// SlogCommitLogger logs events through logger, or slog.Default when nil.
// Failures are logged at warn level.
func SlogCommitLogger(logger *slog.Logger) CommitLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogCommitLogger{logger: logger.With("component", "object")}
}

func (l slogCommitLogger) LogCommit(event CommitLogEvent) {
	attrs := []any{
		"action", string(event.Action),
		"txn_id", event.TxnID.String(),
		"objects", event.Objects,
		"duration", event.Duration,
	}
	if event.Err != nil {
		l.logger.Warn("transaction failed", append(attrs, "error", event.Err)...)
		return
	}
	l.logger.Info("transaction "+string(event.Action), attrs...)
}
