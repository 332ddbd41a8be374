package sel

import (
	"sort"
	"strings"
)

// backend is the engine-specific slice of a deriver: turn an expression and
// the names it may reference into a runnable program. Everything else, the
// program cache, the evaluation environment, function bridging and result
// memoization, is shared across engines.
type backend interface {
	name() string
	compile(expr string, vars []string, registry *FunctionRegistry) (program, error)
}

type program interface {
	eval(env map[string]any) (any, error)
}

// DeriverOption configures an expression deriver regardless of engine.
type DeriverOption func(*engineDeriver)

// DeriverWithProgramCache stores compiled programs in cache, keyed by the
// expression and the variable names it was compiled against.
func DeriverWithProgramCache(cache ProgramCache) DeriverOption {
	return func(d *engineDeriver) {
		d.cache = cache
	}
}

// DeriverWithFunctions makes the registry's functions callable from
// expressions, both by name and through call(name, args...).
func DeriverWithFunctions(registry *FunctionRegistry) DeriverOption {
	return func(d *engineDeriver) {
		if registry != nil {
			d.registry = registry.Clone()
		}
	}
}

type engineDeriver struct {
	backend  backend
	cache    ProgramCache
	registry *FunctionRegistry
}

func newEngineDeriver(b backend, opts []DeriverOption) *engineDeriver {
	d := &engineDeriver{backend: b}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Engine reports the backing engine name ("expr", "cel", "js").
func (d *engineDeriver) Engine() string {
	return d.backend.name()
}

func (d *engineDeriver) Derive(ctx DeriveContext, expr string) (any, error) {
	if expr == "" {
		return nil, newDerivationError(d.Engine(), expr, ctx.Name, errEmptyExpression)
	}
	vars, env := d.environment(ctx)
	prog, err := d.loadOrCompile(expr, vars)
	if err != nil {
		return nil, newDerivationError(d.Engine(), expr, ctx.Name, err)
	}
	out, err := prog.eval(env)
	if err != nil {
		return nil, newDerivationError(d.Engine(), expr, ctx.Name, err)
	}
	return out, nil
}

// Compile returns a derivation bound to this deriver with its own capacity-1
// memo cell. Engine compilation is deferred to the first Derive because the
// variable set depends on the snapshot it runs against.
func (d *engineDeriver) Compile(expr string, opts ...CompileOption) (CompiledDerivation, error) {
	if expr == "" {
		return nil, newDerivationError(d.Engine(), expr, "", errEmptyExpression)
	}
	cfg := applyCompileOptions(opts)
	name := cfg.name
	if name == "" {
		name = expr
	}
	return &compiledDerivation{
		name:    name,
		expr:    expr,
		deriver: d,
		memo:    NewMemo(cfg.memoOptions...),
	}, nil
}

// environment builds the evaluation env: map snapshots spread their keys,
// every snapshot is also reachable as "state", and caller Args ride along.
// The returned vars list only names data, not functions, so it doubles as
// part of the program cache key.
func (d *engineDeriver) environment(ctx DeriveContext) ([]string, map[string]any) {
	env := map[string]any{
		"state": ctx.Snapshot,
		"args":  ctx.Args,
	}
	if snapshot, ok := ctx.Snapshot.(map[string]any); ok {
		for key, value := range snapshot {
			env[key] = value
		}
	}
	vars := make([]string, 0, len(env))
	for key := range env {
		vars = append(vars, key)
	}
	sort.Strings(vars)

	if d.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return d.registry.Call(name, arguments...)
		}
		for _, name := range d.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return d.registry.Call(fn, arguments...)
			}
		}
	}
	return vars, env
}

func (d *engineDeriver) loadOrCompile(expr string, vars []string) (program, error) {
	key := programCacheKey(expr, vars)
	if d.cache != nil {
		if cached, ok := d.cache.Get(key); ok {
			if prog, ok := cached.(program); ok {
				return prog, nil
			}
		}
	}
	prog, err := d.backend.compile(expr, vars, d.registry)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		d.cache.Set(key, prog)
	}
	return prog, nil
}

// programCacheKey includes the variable names so a snapshot with a different
// shape never reuses a program compiled against stale declarations.
func programCacheKey(expr string, vars []string) string {
	return expr + "\x00" + strings.Join(vars, ",")
}

type compiledDerivation struct {
	name    string
	expr    string
	deriver *engineDeriver
	memo    *Memo
}

func (c *compiledDerivation) Name() string {
	return c.name
}

// Derive evaluates the compiled expression, returning the memoized value when
// the snapshot and args are unchanged from the previous call.
func (c *compiledDerivation) Derive(ctx DeriveContext) (any, error) {
	if ctx.Name == "" {
		ctx.Name = c.name
	}
	out, _ := c.memo.Do([]any{ctx.Snapshot, ctx.Args}, func() any {
		value, err := c.deriver.Derive(ctx, c.expr)
		return derivationOutcome{value: value, err: err}
	})
	outcome := out.(derivationOutcome)
	return outcome.value, outcome.err
}

// Reset clears the compiled derivation's memo cell.
func (c *compiledDerivation) Reset() {
	c.memo.Reset()
}

// derivationOutcome memoizes errors alongside values: a derivation is a pure
// function of its inputs, so a failure repeats until the snapshot changes.
type derivationOutcome struct {
	value any
	err   error
}
