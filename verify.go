package sel

import (
	"fmt"

	"github.com/goliatone/go-selectors/internal/clone"
)

// VerifyDeterministic checks that a selector is a pure function of state:
// two deep-equal snapshots must yield deep-equal outputs. The snapshot is
// deep-cloned for each run so stale cache entries cannot mask impurity.
// Intended for tests; an impure combiner is a correctness bug the engine
// does not detect at runtime.
func VerifyDeterministic[S, R any](s *Selector[S, R], state S) error {
	if s == nil {
		return fmt.Errorf("sel: selector is nil")
	}
	s.Reset()
	first := s.Select(clone.Clone(state))
	s.Reset()
	second := s.Select(clone.Clone(state))
	if !clone.Equal(first, second) {
		return fmt.Errorf("sel: selector %s produced different outputs for deep-equal state", s.label())
	}
	return nil
}

// VerifyStable checks reference stability: two sequential selections over the
// same snapshot must return the identical output, so the second call is a
// cache hit and consumers can compare by identity.
func VerifyStable[S, R any](s *Selector[S, R], state S) error {
	if s == nil {
		return fmt.Errorf("sel: selector is nil")
	}
	s.Reset()
	first, firstTrace := s.SelectWithTrace(state)
	second, secondTrace := s.SelectWithTrace(state)
	if firstTrace.Hit {
		return fmt.Errorf("sel: selector %s hit on a cold cache", s.label())
	}
	if !secondTrace.Hit {
		return fmt.Errorf("sel: selector %s missed on unchanged state", s.label())
	}
	if !StrictEquality(first, second) {
		return fmt.Errorf("sel: selector %s returned a new reference for unchanged state", s.label())
	}
	return nil
}
