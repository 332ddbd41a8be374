package store

import "testing"

type todoRecord struct {
	Description string
	CreatedDate int
}

type appState struct {
	Todos        map[string]todoRecord
	SearchPhrase string
}

func TestStateReturnsStableReferenceBetweenTransitions(t *testing.T) {
	s := New(appState{
		Todos: map[string]todoRecord{"a": {Description: "buy milk", CreatedDate: 1}},
	})

	first := s.State()
	second := s.State()
	if len(first.Todos) != 1 || len(second.Todos) != 1 {
		t.Fatalf("unexpected snapshots: %+v vs %+v", first, second)
	}
	// The same underlying map must be handed out until the next transition,
	// otherwise memoized selectors keyed on it would never hit.
	firstTodos := first.Todos
	secondTodos := second.Todos
	firstTodos["marker"] = todoRecord{}
	if _, ok := secondTodos["marker"]; !ok {
		t.Fatalf("expected both reads to share the stored snapshot reference")
	}
	delete(firstTodos, "marker")
}

func TestReplaceDetachesFromCallerValue(t *testing.T) {
	s := New(appState{})
	next := appState{
		Todos: map[string]todoRecord{"a": {Description: "buy milk", CreatedDate: 1}},
	}
	s.Replace(next)

	// Mutating the caller's value must not leak into stored state.
	next.Todos["b"] = todoRecord{Description: "call mom", CreatedDate: 2}
	if got := s.State(); len(got.Todos) != 1 {
		t.Fatalf("expected stored snapshot detached from caller, got %+v", got.Todos)
	}
}

func TestReplaceBumpsRevision(t *testing.T) {
	s := New(appState{})
	initial := s.Meta()
	if initial.RevisionID == "" || initial.Version != 1 {
		t.Fatalf("expected seeded revision, got %+v", initial)
	}

	meta := s.Replace(appState{SearchPhrase: "milk"})
	if meta.Version != initial.Version+1 {
		t.Fatalf("expected version bump, got %+v", meta)
	}
	if meta.RevisionID == "" || meta.RevisionID == initial.RevisionID {
		t.Fatalf("expected a fresh revision id, got %+v", meta)
	}
	if got := s.Meta(); got != meta {
		t.Fatalf("expected Meta to report the latest revision")
	}
}

func TestUpdateAppliesPureTransform(t *testing.T) {
	s := New(appState{
		Todos: map[string]todoRecord{"a": {Description: "buy milk", CreatedDate: 1}},
	})

	meta, err := s.Update(func(state appState) appState {
		state.SearchPhrase = "milk"
		return state
	})
	if err != nil {
		t.Fatalf("unexpected error from Update: %v", err)
	}
	if meta.Version != 2 {
		t.Fatalf("expected version 2 after update, got %d", meta.Version)
	}

	got := s.State()
	if got.SearchPhrase != "milk" || len(got.Todos) != 1 {
		t.Fatalf("unexpected state after update: %+v", got)
	}

	if _, err := s.Update(nil); err != ErrNilTransform {
		t.Fatalf("expected ErrNilTransform, got %v", err)
	}
}

func TestSubscribeNotifiesOnTransitions(t *testing.T) {
	s := New(appState{})
	var phrases []string
	var versions []uint64
	unsubscribe := s.Subscribe(func(snapshot appState, meta Meta) {
		phrases = append(phrases, snapshot.SearchPhrase)
		versions = append(versions, meta.Version)
	})

	s.Replace(appState{SearchPhrase: "milk"})
	s.Replace(appState{SearchPhrase: "call"})
	unsubscribe()
	s.Replace(appState{SearchPhrase: "dropped"})

	if len(phrases) != 2 || phrases[0] != "milk" || phrases[1] != "call" {
		t.Fatalf("unexpected notifications: %v", phrases)
	}
	if len(versions) != 2 || versions[1] != versions[0]+1 {
		t.Fatalf("unexpected versions: %v", versions)
	}
}

func TestStoreSatisfiesSource(t *testing.T) {
	var source Source[appState] = New(appState{SearchPhrase: "milk"})
	if got := source.State(); got.SearchPhrase != "milk" {
		t.Fatalf("unexpected state through Source: %+v", got)
	}
}
