package sel

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// NewExprDeriver constructs a Deriver backed by expr-lang/expr, the default
// engine for view derivations.
func NewExprDeriver(opts ...DeriverOption) Deriver {
	return newEngineDeriver(exprBackend{}, opts)
}

type exprBackend struct{}

func (exprBackend) name() string { return "expr" }

// compile ignores vars: expr resolves identifiers from the runtime env, so
// one program serves any snapshot shape. Registry functions are injected as
// env closures at eval time rather than declared here.
func (exprBackend) compile(expr string, _ []string, _ *FunctionRegistry) (program, error) {
	compiled, err := exprlang.Compile(expr,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, err
	}
	return exprProgram{compiled: compiled}, nil
}

type exprProgram struct {
	compiled *exprvm.Program
}

func (p exprProgram) eval(env map[string]any) (any, error) {
	return exprlang.Run(p.compiled, env)
}
