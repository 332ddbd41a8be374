package sel

import (
	"context"
	"time"

	"github.com/goliatone/go-selectors/pkg/observe"
)

// Selector derives a view-ready value R from a state snapshot S. Inputs are
// extracted from the snapshot by thin wrapper funcs and passed to a memoized
// combiner, keeping the combiner pure and decoupled from the snapshot shape.
// Each selector owns an independent memo cell keyed on its own argument
// tuple; hits return the previously computed output with its reference
// identity intact so consumers can detect "no change" by comparison.
//
// Combiners must not mutate their inputs or reach into external state. The
// engine does not enforce this at runtime; violations surface as
// nondeterminism under test.
type Selector[S, R any] struct {
	name    string
	arity   int
	inputs  []func(S) any
	combine func([]any) R
	memo    *Memo
	logger  SelectionLogger
	hooks   observe.Hooks
}

func newSelector[S, R any](inputs []func(S) any, combine func([]any) R, opts []Option) *Selector[S, R] {
	cfg := applyOptions(opts)
	return &Selector[S, R]{
		name:    cfg.name,
		arity:   len(inputs),
		inputs:  inputs,
		combine: combine,
		memo:    NewMemo(cfg.memoOptions...),
		logger:  cfg.selectionLogger(),
		hooks:   cfg.observeHooks,
	}
}

// New1 builds a selector over a single extracted input.
func New1[S, A, R any](input func(S) A, combine func(A) R, opts ...Option) *Selector[S, R] {
	if input == nil || combine == nil {
		return nil
	}
	return newSelector(
		[]func(S) any{func(state S) any { return input(state) }},
		func(args []any) R { return combine(args[0].(A)) },
		opts,
	)
}

// New2 builds a selector over two extracted inputs.
func New2[S, A, B, R any](inputA func(S) A, inputB func(S) B, combine func(A, B) R, opts ...Option) *Selector[S, R] {
	if inputA == nil || inputB == nil || combine == nil {
		return nil
	}
	return newSelector(
		[]func(S) any{
			func(state S) any { return inputA(state) },
			func(state S) any { return inputB(state) },
		},
		func(args []any) R { return combine(args[0].(A), args[1].(B)) },
		opts,
	)
}

// New3 builds a selector over three extracted inputs.
func New3[S, A, B, C, R any](inputA func(S) A, inputB func(S) B, inputC func(S) C, combine func(A, B, C) R, opts ...Option) *Selector[S, R] {
	if inputA == nil || inputB == nil || inputC == nil || combine == nil {
		return nil
	}
	return newSelector(
		[]func(S) any{
			func(state S) any { return inputA(state) },
			func(state S) any { return inputB(state) },
			func(state S) any { return inputC(state) },
		},
		func(args []any) R { return combine(args[0].(A), args[1].(B), args[2].(C)) },
		opts,
	)
}

// New4 builds a selector over four extracted inputs.
func New4[S, A, B, C, D, R any](inputA func(S) A, inputB func(S) B, inputC func(S) C, inputD func(S) D, combine func(A, B, C, D) R, opts ...Option) *Selector[S, R] {
	if inputA == nil || inputB == nil || inputC == nil || inputD == nil || combine == nil {
		return nil
	}
	return newSelector(
		[]func(S) any{
			func(state S) any { return inputA(state) },
			func(state S) any { return inputB(state) },
			func(state S) any { return inputC(state) },
			func(state S) any { return inputD(state) },
		},
		func(args []any) R { return combine(args[0].(A), args[1].(B), args[2].(C), args[3].(D)) },
		opts,
	)
}

// Select computes the derived value for state, returning the cached output
// when every extracted input matches the retained tuple.
func (s *Selector[S, R]) Select(state S) R {
	value, _ := s.run(state)
	return value
}

// SelectWithTrace computes the derived value and reports how the memo cell
// behaved for this call.
func (s *Selector[S, R]) SelectWithTrace(state S) (R, Trace) {
	return s.run(state)
}

func (s *Selector[S, R]) run(state S) (R, Trace) {
	args := make([]any, len(s.inputs))
	for i, input := range s.inputs {
		args[i] = input(state)
	}

	before := s.memo.Stats()
	start := time.Now()
	output, hit, changed := s.memo.do(args, func() any { return s.combine(args) })
	duration := time.Since(start)

	s.logger.LogSelection(SelectionLogEvent{
		Selector: s.label(),
		Hit:      hit,
		Duration: duration,
	})
	s.emit(hit, before, duration)

	trace := Trace{
		Selector: s.label(),
		Hit:      hit,
		Changed:  changed,
		Duration: duration,
	}
	return output.(R), trace
}

func (s *Selector[S, R]) emit(hit bool, before MemoStats, duration time.Duration) {
	if !s.hooks.Enabled() {
		return
	}
	ctx := context.Background()
	kind := observe.KindMiss
	if hit {
		kind = observe.KindHit
	}
	_ = s.hooks.Notify(ctx, observe.Event{
		Kind:     kind,
		Selector: s.label(),
		Duration: duration,
	})
	if after := s.memo.Stats(); after.Evictions > before.Evictions {
		_ = s.hooks.Notify(ctx, observe.Event{
			Kind:     observe.KindEviction,
			Selector: s.label(),
		})
	}
}

// Reset clears the selector's memo cell so the next call recomputes.
func (s *Selector[S, R]) Reset() {
	s.memo.Reset()
}

// Stats returns the memo cell's counters.
func (s *Selector[S, R]) Stats() MemoStats {
	return s.memo.Stats()
}

// Name returns the configured selector name.
func (s *Selector[S, R]) Name() string {
	return s.name
}

func (s *Selector[S, R]) label() string {
	if s.name != "" {
		return s.name
	}
	return "unknown"
}
