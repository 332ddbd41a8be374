package observe

import (
	"context"
	"strings"
)

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithChannel overrides the channel stamped on events that carry none.
func WithChannel(channel string) EmitterOption {
	return func(e *Emitter) {
		if trimmed := strings.TrimSpace(channel); trimmed != "" {
			e.channel = trimmed
		}
	}
}

// Muted constructs the emitter disabled; Emit becomes a no-op. Useful when
// emission is toggled by configuration.
func Muted() EmitterOption {
	return func(e *Emitter) {
		e.muted = true
	}
}

// Emitter stamps a default channel onto events and fans them out to hooks.
// An emitter with no hooks is disabled.
type Emitter struct {
	hooks   Hooks
	channel string
	muted   bool
}

// NewEmitter constructs an emitter over hooks.
func NewEmitter(hooks Hooks, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		hooks:   cloneHooks(hooks),
		channel: "selectors",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Enabled reports whether Emit will forward events.
func (e *Emitter) Enabled() bool {
	return e != nil && !e.muted && len(e.hooks) > 0
}

// Emit forwards the event to all hooks, applying the default channel when
// the event carries none.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}

func cloneHooks(hooks Hooks) Hooks {
	if len(hooks) == 0 {
		return nil
	}
	cloned := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			cloned = append(cloned, hook)
		}
	}
	return cloned
}
