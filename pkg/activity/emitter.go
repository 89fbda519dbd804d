package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "objects"

// Config holds the defaults an arena stamps on the events it emits.
type Config struct {
	Enabled bool
	Channel string
	Actor   string
	Tenant  string
}

// Emitter fans object events out to hooks and fills in the arena defaults
// the builders leave empty.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	actor   string
	tenant  string
	now     func() time.Time
}

// NewEmitter constructs an emitter from hooks and configuration. It is
// disabled when cfg says so or when no usable hook remains.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	kept := cloneHooks(hooks)
	return &Emitter{
		hooks:   kept,
		enabled: cfg.Enabled && len(kept) > 0,
		channel: channel,
		actor:   strings.TrimSpace(cfg.Actor),
		tenant:  strings.TrimSpace(cfg.Tenant),
		now:     time.Now,
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit forwards event to every hook after stamping the channel, actor,
// tenant and time it lacks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.actor
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.tenant
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	return e.hooks.Notify(ctx, event)
}

// EmitObjects builds the event for verb from input and emits it. Unknown
// verbs are reported as commits.
func (e *Emitter) EmitObjects(ctx context.Context, verb string, input ObjectsEventInput) error {
	if !e.Enabled() {
		return nil
	}
	switch verb {
	case VerbObjectsUndone, VerbObjectsRedone:
	default:
		verb = VerbObjectsCommitted
	}
	return e.Emit(ctx, buildObjectsEvent(verb, input))
}

func cloneHooks(hooks Hooks) Hooks {
	if len(hooks) == 0 {
		return nil
	}
	kept := make([]ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return Hooks(kept)
}
