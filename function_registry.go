package sel

import (
	"fmt"
	"sort"
	"sync"
)

// Function is a helper callable from derivation expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds the functions a deriver exposes to expressions.
// Names are case-sensitive, matching the expression engines themselves.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register stores fn under name. Registering the same name twice is an
// error; replace a helper by building a new registry.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if name == "" {
		return fmt.Errorf("sel: function name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("sel: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, taken := r.functions[name]; taken {
		return fmt.Errorf("sel: function %q already registered", name)
	}
	r.functions[name] = fn
	return nil
}

// Lookup returns the function registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.functions[name]
	return fn, ok
}

// Call invokes the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("sel: function %q not registered", name)
	}
	return fn(args...)
}

// Names lists registered function names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent registry with the same functions, so derivers
// keep a stable helper set even if the source registry changes later.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cloned := &FunctionRegistry{functions: make(map[string]Function, len(r.functions))}
	for name, fn := range r.functions {
		cloned.functions[name] = fn
	}
	return cloned
}

// WithFunctions exposes the registry's helpers to a view's deriver.
func WithFunctions(registry *FunctionRegistry) Option {
	return func(cfg *selectorConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers a single helper on the view's registry.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *selectorConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
