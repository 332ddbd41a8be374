package sel

import "github.com/goliatone/go-selectors/pkg/observe"

// View wraps a dependency-injected, read-only state accessor together with
// deriver configuration. The accessor is called at derivation time so the
// view always sees the container's current snapshot; the view itself never
// holds a mutable reference into the container.
//
// Each expression the view derives gets its own capacity-1 memo cell keyed
// on the snapshot reference, so derivations share the reference-stability
// contract of function selectors. Like selectors, a view is owned by a
// single caller and is not safe for concurrent use.
type View[S any] struct {
	source func() S
	cfg    selectorConfig
	memos  map[string]*Memo
}

// NewView constructs a View over the provided state accessor.
func NewView[S any](source func() S, opts ...Option) *View[S] {
	return &View[S]{
		source: source,
		cfg:    applyOptions(opts),
	}
}

// NewStaticView constructs a View over a fixed snapshot, useful for tests
// and fixtures that have no live container.
func NewStaticView[S any](snapshot S, opts ...Option) *View[S] {
	return NewView(func() S { return snapshot }, opts...)
}

// Snapshot returns the current state snapshot from the accessor.
func (v *View[S]) Snapshot() S {
	if v == nil || v.source == nil {
		var zero S
		return zero
	}
	return v.source()
}

// Reset clears every derivation memo cell so the next Derive recomputes.
func (v *View[S]) Reset() {
	v.memos = nil
}

// ObserveHooks returns a cloned slice of the observe hooks configured on the
// view. The returned slice can be safely mutated by the caller.
func (v *View[S]) ObserveHooks() observe.Hooks {
	if v == nil {
		return nil
	}
	return cloneObserveHooks(v.cfg.observeHooks)
}

func (v *View[S]) memoFor(expr string) *Memo {
	if v.memos == nil {
		v.memos = map[string]*Memo{}
	}
	memo, ok := v.memos[expr]
	if !ok {
		memo = NewMemo()
		v.memos[expr] = memo
	}
	return memo
}

func (v *View[S]) deriver() Deriver {
	return v.cfg.deriver
}

func (v *View[S]) withDeriver(d Deriver) {
	v.cfg.deriver = d
}

func (v *View[S]) programCache() ProgramCache {
	return v.cfg.programCache
}

func (v *View[S]) functionRegistry() *FunctionRegistry {
	return v.cfg.functions
}

func (v *View[S]) selectionLogger() SelectionLogger {
	return v.cfg.selectionLogger()
}

func deriverEngineName(d Deriver) string {
	if d == nil {
		return "unknown"
	}
	if named, ok := d.(interface{ Engine() string }); ok {
		return named.Engine()
	}
	return "custom"
}
