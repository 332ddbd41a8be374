package sel

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// NewCELDeriver constructs a Deriver backed by google/cel-go.
func NewCELDeriver(opts ...DeriverOption) Deriver {
	return newEngineDeriver(celBackend{}, opts)
}

type celBackend struct{}

func (celBackend) name() string { return "cel" }

// compile declares every data var as Dyn since CEL is checked: the program
// cache key carries the var names, so a snapshot with a different shape
// triggers a fresh compile instead of an undeclared-reference failure.
func (celBackend) compile(expr string, vars []string, registry *FunctionRegistry) (program, error) {
	envOpts := make([]celgo.EnvOption, 0, len(vars)+1)
	for _, name := range vars {
		envOpts = append(envOpts, celgo.Variable(name, celgo.DynType))
	}
	if registry != nil {
		// cel-go has no variadic overloads; enumerate arities for
		// call(name, args...) up to maxCallArgs extra arguments.
		const maxCallArgs = 8
		callArgs := []*celgo.Type{celgo.StringType}
		overloads := make([]celgo.FunctionOpt, 0, maxCallArgs+1)
		for i := 0; i <= maxCallArgs; i++ {
			overloads = append(overloads, celgo.Overload(
				fmt.Sprintf("call_dyn_%d", i),
				append([]*celgo.Type(nil), callArgs...),
				celgo.DynType,
				celgo.FunctionBinding(celCallBinding(registry)),
			))
			callArgs = append(callArgs, celgo.DynType)
		}
		envOpts = append(envOpts, celgo.Function("call", overloads...))
	}
	env, err := celgo.NewEnv(envOpts...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return celProgram{prg: prg}, nil
}

type celProgram struct {
	prg celgo.Program
}

func (p celProgram) eval(env map[string]any) (any, error) {
	out, _, err := p.prg.Eval(env)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func celCallBinding(registry *FunctionRegistry) func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if len(values) == 0 {
			return types.NewErr("sel: call requires a function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("sel: call name must be a string")
		}
		arguments := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			arguments = append(arguments, val.Value())
		}
		result, err := registry.Call(name, arguments...)
		if err != nil {
			return types.NewErr(err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
