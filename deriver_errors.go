package sel

import (
	"errors"
	"fmt"
)

var errEmptyExpression = errors.New("expression must not be empty")

// DerivationError reports a failed derivation together with the engine, the
// expression and the derivation name it was running under.
type DerivationError struct {
	Engine string
	Expr   string
	Name   string
	Err    error
}

func (e *DerivationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	name := e.Name
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("sel: derive %q (%s) for %s: %v", e.Expr, e.Engine, name, e.Err)
}

func (e *DerivationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// newDerivationError wraps err with derivation metadata. An error that is
// already a DerivationError keeps its fields and only has blanks filled, so
// the innermost wrap wins.
func newDerivationError(engine, expr, name string, err error) error {
	if err == nil {
		return nil
	}
	var existing *DerivationError
	if errors.As(err, &existing) {
		if existing.Engine == "" {
			existing.Engine = engine
		}
		if existing.Expr == "" {
			existing.Expr = expr
		}
		if existing.Name == "" {
			existing.Name = name
		}
		return err
	}
	return &DerivationError{
		Engine: engine,
		Expr:   expr,
		Name:   name,
		Err:    err,
	}
}
