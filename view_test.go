package sel

import (
	"context"
	"testing"

	"github.com/goliatone/go-selectors/pkg/observe"
)

func TestWithObserveHooksClonesAndFiltersNil(t *testing.T) {
	hook := observe.HookFunc(func(context.Context, observe.Event) error { return nil })

	view := NewStaticView(map[string]any{"a": 1}, WithObserveHooks(observe.Hooks{nil, hook}))
	hooks := view.ObserveHooks()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	// Mutate returned slice and ensure original configuration is unaffected.
	hooks[0] = nil
	again := view.ObserveHooks()
	if len(again) != 1 || again[0] == nil {
		t.Fatalf("expected cloned hooks unaffected by mutation, got %+v", again)
	}
}

func TestObserveHooksDefaultNil(t *testing.T) {
	view := NewStaticView(map[string]any{"a": 1})
	if hooks := view.ObserveHooks(); hooks != nil {
		t.Fatalf("expected nil hooks by default, got %+v", hooks)
	}
}

func TestSnapshotReadsAccessor(t *testing.T) {
	current := map[string]any{"searchPhrase": "milk"}
	view := NewView(func() map[string]any { return current })

	if got := view.Snapshot(); got["searchPhrase"] != "milk" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}

	current = map[string]any{"searchPhrase": "call"}
	if got := view.Snapshot(); got["searchPhrase"] != "call" {
		t.Fatalf("expected accessor to surface the new snapshot, got %+v", got)
	}
}

func TestDeriveAsHydratesViewModel(t *testing.T) {
	type todoView struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}

	snapshot := map[string]any{
		"todos": []any{
			map[string]any{"id": "a", "description": "buy milk"},
			map[string]any{"id": "b", "description": "call mom"},
		},
	}
	view := NewStaticView(snapshot)

	items, err := DeriveAs[[]todoView](view, `filter(todos, .description contains "milk")`)
	if err != nil {
		t.Fatalf("unexpected error from DeriveAs: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("unexpected hydrated view models: %+v", items)
	}
}
