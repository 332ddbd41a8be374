package sel

import "github.com/goliatone/go-selectors/pkg/observe"

// Response stores a typed result produced by a deriver.
type Response[T any] struct {
	Value T
}

// DeriveContext carries what a single derivation needs: the snapshot it reads
// from, optional caller-supplied parameters exposed to the expression, and a
// name for logs and errors. Derivations are pure functions of these inputs;
// anything time- or environment-dependent belongs in Args so it participates
// in memoization.
type DeriveContext struct {
	Snapshot any
	Args     map[string]any
	Name     string
}

func (ctx DeriveContext) label() string {
	if ctx.Name != "" {
		return ctx.Name
	}
	return "unknown"
}

// Deriver evaluates derivation expressions against a snapshot.
type Deriver interface {
	Derive(ctx DeriveContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledDerivation, error)
}

// CompiledDerivation is a reusable derivation carrying its own name and memo
// cell, so repeated evaluation over an unchanged snapshot returns the cached
// value.
type CompiledDerivation interface {
	Name() string
	Derive(ctx DeriveContext) (any, error)
}

// CompileOption configures a compiled derivation.
type CompileOption func(*compileConfig)

type compileConfig struct {
	name        string
	memoOptions []MemoOption
}

// WithDerivationName labels a compiled derivation for logs, errors and
// traces.
func WithDerivationName(name string) CompileOption {
	return func(cfg *compileConfig) {
		cfg.name = name
	}
}

// WithDerivationMemo forwards memo options to the compiled derivation's cell.
func WithDerivationMemo(opts ...MemoOption) CompileOption {
	return func(cfg *compileConfig) {
		cfg.memoOptions = append(cfg.memoOptions, opts...)
	}
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	var cfg compileConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

type Option func(*selectorConfig)

type selectorConfig struct {
	name         string
	deriver      Deriver
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       SelectionLogger
	memoOptions  []MemoOption
	observeHooks observe.Hooks
}

func applyOptions(opts []Option) selectorConfig {
	cfg := selectorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithName labels a selector or view for logging, tracing and descriptors.
func WithName(name string) Option {
	return func(cfg *selectorConfig) {
		cfg.name = name
	}
}

// WithDeriver configures the expression deriver used by a view.
func WithDeriver(d Deriver) Option {
	return func(cfg *selectorConfig) {
		cfg.deriver = d
	}
}

// WithMemo forwards memo options (capacity, equality) to the selector's cell.
func WithMemo(opts ...MemoOption) Option {
	return func(cfg *selectorConfig) {
		cfg.memoOptions = append(cfg.memoOptions, opts...)
	}
}

func (cfg selectorConfig) selectionLogger() SelectionLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return discardSelections
}

func (cfg selectorConfig) label() string {
	if cfg.name != "" {
		return cfg.name
	}
	return "unknown"
}
