package sel

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-selectors/pkg/hydrate"
	"github.com/goliatone/go-selectors/pkg/observe"
)

var ErrNoDeriver = errors.New("sel: deriver not configured")

// Derive evaluates expr against the current snapshot using the configured
// deriver. The result is memoized per expression against the snapshot
// reference: deriving again over unchanged state returns the identical
// value without re-evaluating.
func (v *View[S]) Derive(expr string) (Response[any], error) {
	return v.DeriveWith(DeriveContext{}, expr)
}

// DeriveWith evaluates expr using ctx, falling back to the accessor's
// current snapshot when ctx.Snapshot is nil. Memoization keys on the
// snapshot reference and the Args map reference.
func (v *View[S]) DeriveWith(ctx DeriveContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, newDerivationError("unknown", expr, ctx.Name, errEmptyExpression)
	}
	deriver, err := v.resolveDeriver()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = v.Snapshot()
	}
	if ctx.Name == "" {
		ctx.Name = v.cfg.name
	}
	engine := deriverEngineName(deriver)

	start := time.Now()
	out, hit := v.memoFor(expr).Do([]any{ctx.Snapshot, ctx.Args}, func() any {
		value, deriveErr := deriver.Derive(ctx, expr)
		return derivationOutcome{
			value: value,
			err:   newDerivationError(engine, expr, ctx.Name, deriveErr),
		}
	})
	duration := time.Since(start)
	outcome := out.(derivationOutcome)

	v.selectionLogger().LogSelection(SelectionLogEvent{
		Engine:   engine,
		Selector: ctx.label(),
		Expr:     expr,
		Hit:      hit,
		Duration: duration,
		Err:      outcome.err,
	})
	v.emit(ctx, engine, hit, duration, outcome.err)

	if outcome.err != nil {
		return Response[any]{}, outcome.err
	}
	return Response[any]{Value: outcome.value}, nil
}

func (v *View[S]) emit(ctx DeriveContext, engine string, hit bool, duration time.Duration, err error) {
	if !v.cfg.observeHooks.Enabled() {
		return
	}
	kind := observe.KindMiss
	switch {
	case err != nil:
		kind = observe.KindDeriveErr
	case hit:
		kind = observe.KindHit
	}
	_ = v.cfg.observeHooks.Notify(context.Background(), observe.Event{
		Kind:     kind,
		Selector: ctx.label(),
		Engine:   engine,
		Duration: duration,
	})
}

// DeriveAs evaluates expr and hydrates the derived payload into T.
func DeriveAs[T any, S any](v *View[S], expr string, opts ...hydrate.DecoderOption[T]) (T, error) {
	var zero T
	response, err := v.DeriveWith(DeriveContext{}, expr)
	if err != nil {
		return zero, err
	}
	decoder := hydrate.NewDecoder(opts...)
	return decoder.Decode(hydrate.Context{Selector: expr}, response.Value)
}

func (v *View[S]) resolveDeriver() (Deriver, error) {
	deriver := v.deriver()
	if deriver != nil {
		return deriver, nil
	}
	var opts []DeriverOption
	if cache := v.programCache(); cache != nil {
		opts = append(opts, DeriverWithProgramCache(cache))
	}
	if registry := v.functionRegistry(); registry != nil {
		opts = append(opts, DeriverWithFunctions(registry))
	}
	defaultDeriver := NewExprDeriver(opts...)
	if defaultDeriver == nil {
		return nil, ErrNoDeriver
	}
	v.withDeriver(defaultDeriver)
	return defaultDeriver, nil
}
