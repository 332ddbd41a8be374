package sel

import "encoding/json"

// Descriptor summarises a selector for tooling and dashboards. It carries no
// references into the selector, so callers may serialise or retain it freely.
type Descriptor struct {
	Name     string    `json:"name"`
	Arity    int       `json:"arity"`
	Capacity int       `json:"capacity"`
	Retained int       `json:"retained"`
	Stats    MemoStats `json:"stats"`
}

// Describe generates a descriptor document for the selector.
func (s *Selector[S, R]) Describe() Descriptor {
	return Descriptor{
		Name:     s.label(),
		Arity:    s.arity,
		Capacity: s.memo.Capacity(),
		Retained: s.memo.Len(),
		Stats:    s.memo.Stats(),
	}
}

// ToJSON serialises the descriptor.
func (d Descriptor) ToJSON() ([]byte, error) {
	type alias Descriptor
	return json.Marshal(alias(d))
}
