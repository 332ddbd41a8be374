//go:build js_eval

package sel

import (
	"fmt"

	"github.com/dop251/goja"
)

// NewJSDeriver constructs a Deriver backed by goja. Only available when the
// module is built with the js_eval tag.
func NewJSDeriver(opts ...DeriverOption) Deriver {
	return newEngineDeriver(jsBackend{}, opts)
}

func jsDeriverAvailable() bool { return true }

type jsBackend struct{}

func (jsBackend) name() string { return "js" }

func (jsBackend) compile(expr string, _ []string, _ *FunctionRegistry) (program, error) {
	wrapped := fmt.Sprintf("(function(){ return (%s); })()", expr)
	compiled, err := goja.Compile("", wrapped, false)
	if err != nil {
		return nil, err
	}
	return jsProgram{compiled: compiled}, nil
}

type jsProgram struct {
	compiled *goja.Program
}

// eval runs the program in a fresh runtime per call; goja runtimes are
// mutable and must not be shared across snapshots.
func (p jsProgram) eval(env map[string]any) (any, error) {
	vm := goja.New()
	for key, value := range env {
		if err := vm.Set(key, value); err != nil {
			return nil, err
		}
	}
	result, err := vm.RunProgram(p.compiled)
	if err != nil {
		return nil, err
	}
	return result.Export(), nil
}
