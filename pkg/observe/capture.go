package observe

import (
	"context"
	"sync"
)

// CaptureHook records events for assertions in tests.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify records the event and returns any configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Kinds returns the recorded event kinds in order.
func (h *CaptureHook) Kinds() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	kinds := make([]string, len(h.Events))
	for i, event := range h.Events {
		kinds[i] = event.Kind
	}
	return kinds
}
