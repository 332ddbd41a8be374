// Package hydrate converts derived payloads, the maps, lists and scalars an
// expression deriver produces, into strongly typed view models.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies the derivation a payload came from, for error messages
// and hooks.
type Context struct {
	Selector string
	View     string
}

// PreHook normalises the payload before decoding. Returning a non-nil value
// replaces the payload for the rest of the pipeline.
type PreHook func(Context, any) (any, error)

// PostHook adjusts or validates the view model after decoding.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the default JSON decoding when provided.
type CustomDecoder[T any] func(Context, any) (T, error)

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*decoderConfig[T])

type decoderConfig[T any] struct {
	pre          []PreHook
	post         []PostHook[T]
	custom       CustomDecoder[T]
	useNumber    bool
	strictFields bool
}

// WithPreHook runs hook before decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(cfg *decoderConfig[T]) {
		if hook != nil {
			cfg.pre = append(cfg.pre, hook)
		}
	}
}

// WithPostHook runs hook after decoding.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(cfg *decoderConfig[T]) {
		if hook != nil {
			cfg.post = append(cfg.post, hook)
		}
	}
}

// WithUseNumber decodes JSON numbers as json.Number instead of float64.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(cfg *decoderConfig[T]) {
		cfg.useNumber = true
	}
}

// WithDisallowUnknownFields rejects payload fields with no match in T.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(cfg *decoderConfig[T]) {
		cfg.strictFields = true
	}
}

// WithCustomDecoder replaces the default JSON decoding path.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(cfg *decoderConfig[T]) {
		cfg.custom = decoder
	}
}

// Decoder converts derived payloads into view models of type T.
type Decoder[T any] struct {
	cfg decoderConfig[T]
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&d.cfg)
		}
	}
	return d
}

// Decode runs the pipeline: detach the payload from the caller, apply
// pre-hooks, decode into T, apply post-hooks.
func (d *Decoder[T]) Decode(ctx Context, payload any) (T, error) {
	var zero T
	if payload == nil {
		return zero, fmt.Errorf("hydrate: nil payload for selector %q", ctx.Selector)
	}

	current, err := detach(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: detach payload for selector %q: %w", ctx.Selector, err)
	}
	for _, hook := range d.cfg.pre {
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for selector %q: %w", ctx.Selector, err)
		}
		if next != nil {
			current = next
		}
	}

	result, err := d.decode(ctx, current)
	if err != nil {
		return zero, err
	}

	for _, hook := range d.cfg.post {
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for selector %q: %w", ctx.Selector, err)
		}
	}
	return result, nil
}

func (d *Decoder[T]) decode(ctx Context, payload any) (T, error) {
	var result T
	if d.cfg.custom != nil {
		result, err := d.cfg.custom(ctx, payload)
		if err != nil {
			return result, fmt.Errorf("hydrate: custom decoder for selector %q: %w", ctx.Selector, err)
		}
		return result, nil
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return result, fmt.Errorf("hydrate: encode payload for selector %q: %w", ctx.Selector, err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	if d.cfg.useNumber {
		dec.UseNumber()
	}
	if d.cfg.strictFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("hydrate: decode selector %q: %w", ctx.Selector, err)
	}
	return result, nil
}

// detach deep-copies the payload through JSON so hooks can mutate it without
// touching the deriver's memoized value.
func detach(payload any) (any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}
