package object

import (
	"github.com/goliatone/go-object/pkg/activity"
)

// Option configures an Arena or a Transaction.
type Option func(*config)

type config struct {
	logger  CommitLogger
	hooks   activity.Hooks
	channel string
	actor   string
	tenant  string
	metrics bool
}

func newConfig(opts ...Option) config {
	cfg := config{
		logger:  noopCommitLogger{},
		metrics: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithActivityHooks attaches activity hooks to an arena. Hooks are cloned and
// nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *config) {
		cfg.hooks = normalized
	}
}

// WithActivityChannel sets the channel stamped on emitted activity events.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.channel = channel
	}
}

// WithActor names the actor reported on commit events.
func WithActor(actor string) Option {
	return func(cfg *config) {
		cfg.actor = actor
	}
}

// WithTenant names the tenant reported on activity events.
func WithTenant(tenant string) Option {
	return func(cfg *config) {
		cfg.tenant = tenant
	}
}

// WithMetrics toggles metric recording.
func WithMetrics(enabled bool) Option {
	return func(cfg *config) {
		cfg.metrics = enabled
	}
}

// ActivityHooks returns a copy of the hooks configured on the arena.
func (a *Arena) ActivityHooks() activity.Hooks {
	if a == nil {
		return nil
	}
	return cloneActivityHooks(a.cfg.hooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
