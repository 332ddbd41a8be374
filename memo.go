package sel

import "reflect"

// EqualityFunc compares a single argument position between an incoming tuple
// and a cached tuple.
type EqualityFunc func(a, b any) bool

// StrictEquality is the default argument comparison: `==` for comparable
// values and reference identity for slices, maps and funcs. A freshly built
// slice never matches a cached one, so extractors should return stable
// references when they want hits.
func StrictEquality(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Type().Comparable() {
		return a == b
	}
	switch ra.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	}
	return false
}

// MemoOption configures a memo cell.
type MemoOption func(*memoConfig)

type memoConfig struct {
	capacity int
	equality EqualityFunc
}

// WithCapacity sets how many argument tuples the cell retains. Values below
// one fall back to the default single slot.
func WithCapacity(n int) MemoOption {
	return func(cfg *memoConfig) {
		cfg.capacity = n
	}
}

// WithEquality replaces the per-position argument comparison.
func WithEquality(eq EqualityFunc) MemoOption {
	return func(cfg *memoConfig) {
		if eq != nil {
			cfg.equality = eq
		}
	}
}

func applyMemoOptions(opts []MemoOption) memoConfig {
	cfg := memoConfig{capacity: 1, equality: StrictEquality}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.capacity < 1 {
		cfg.capacity = 1
	}
	return cfg
}

// MemoStats counts cache behaviour since the last reset.
type MemoStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// Memo caches one output per retained argument tuple, most recently used
// first. A cell is owned by a single selector and is not safe for concurrent
// use; callers invoke it synchronously from their render or notification
// loop.
type Memo struct {
	capacity int
	equality EqualityFunc
	entries  []memoEntry
	stats    MemoStats
}

type memoEntry struct {
	args   []any
	output any
}

// NewMemo constructs an empty memo cell.
func NewMemo(opts ...MemoOption) *Memo {
	cfg := applyMemoOptions(opts)
	return &Memo{
		capacity: cfg.capacity,
		equality: cfg.equality,
	}
}

// Do returns the cached output for args when the tuple matches a retained
// entry, otherwise it invokes compute, stores the result and evicts the least
// recently used entry once capacity is exceeded. Hits preserve the stored
// output's reference identity.
func (m *Memo) Do(args []any, compute func() any) (any, bool) {
	output, hit, _ := m.do(args, compute)
	return output, hit
}

func (m *Memo) do(args []any, compute func() any) (any, bool, []int) {
	if idx, changed, ok := m.lookup(args); ok {
		m.stats.Hits++
		entry := m.entries[idx]
		m.touch(idx)
		return entry.output, true, nil
	} else {
		m.stats.Misses++
		output := compute()
		m.insert(memoEntry{args: append([]any(nil), args...), output: output})
		return output, false, changed
	}
}

// lookup scans retained tuples with per-position equality. It also reports
// which positions of the most recent tuple differ, for tracing.
func (m *Memo) lookup(args []any) (int, []int, bool) {
	var changed []int
	for idx, entry := range m.entries {
		if len(entry.args) != len(args) {
			if idx == 0 {
				changed = allPositions(len(args))
			}
			continue
		}
		match := true
		for pos := range args {
			if !m.equality(args[pos], entry.args[pos]) {
				match = false
				if idx == 0 {
					changed = append(changed, pos)
				} else {
					break
				}
			}
		}
		if match {
			return idx, nil, true
		}
	}
	if len(m.entries) == 0 {
		changed = allPositions(len(args))
	}
	return 0, changed, false
}

func (m *Memo) touch(idx int) {
	if idx == 0 {
		return
	}
	entry := m.entries[idx]
	copy(m.entries[1:idx+1], m.entries[:idx])
	m.entries[0] = entry
}

func (m *Memo) insert(entry memoEntry) {
	if len(m.entries) < m.capacity {
		m.entries = append(m.entries, memoEntry{})
	} else {
		m.stats.Evictions++
	}
	copy(m.entries[1:], m.entries[:len(m.entries)-1])
	m.entries[0] = entry
}

// Reset drops all retained tuples and zeroes the stats.
func (m *Memo) Reset() {
	m.entries = nil
	m.stats = MemoStats{}
}

// Stats returns a copy of the cell's counters.
func (m *Memo) Stats() MemoStats {
	return m.stats
}

// Len reports how many tuples the cell currently retains.
func (m *Memo) Len() int {
	return len(m.entries)
}

// Capacity reports the configured retention bound.
func (m *Memo) Capacity() int {
	return m.capacity
}

func allPositions(n int) []int {
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
