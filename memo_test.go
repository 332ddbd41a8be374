package sel

import "testing"

func TestMemoCapacityOneRecomputesAfterEviction(t *testing.T) {
	memo := NewMemo()
	calls := 0
	compute := func(a, b string) func() any {
		return func() any {
			calls++
			return a + b
		}
	}

	if _, hit := memo.Do([]any{"x", "y"}, compute("x", "y")); hit {
		t.Fatalf("expected cold cache miss")
	}
	if _, hit := memo.Do([]any{"x", "y"}, compute("x", "y")); !hit {
		t.Fatalf("expected hit on repeated tuple")
	}
	if _, hit := memo.Do([]any{"a", "b"}, compute("a", "b")); hit {
		t.Fatalf("expected miss on new tuple")
	}
	// Capacity 1 only retains the immediately prior tuple.
	if _, hit := memo.Do([]any{"x", "y"}, compute("x", "y")); hit {
		t.Fatalf("expected recompute after eviction")
	}
	if calls != 3 {
		t.Fatalf("expected 3 computations, got %d", calls)
	}

	stats := memo.Stats()
	if stats.Hits != 1 || stats.Misses != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Evictions != 2 {
		t.Fatalf("expected 2 evictions, got %d", stats.Evictions)
	}
}

func TestMemoLRUCapacityRetainsRecentTuples(t *testing.T) {
	memo := NewMemo(WithCapacity(2))
	calls := 0
	compute := func(v int) func() any {
		return func() any {
			calls++
			return v * 10
		}
	}

	memo.Do([]any{1}, compute(1))
	memo.Do([]any{2}, compute(2))
	if _, hit := memo.Do([]any{1}, compute(1)); !hit {
		t.Fatalf("expected tuple 1 retained at capacity 2")
	}
	// Inserting a third tuple evicts the least recently used (2).
	memo.Do([]any{3}, compute(3))
	if _, hit := memo.Do([]any{2}, compute(2)); hit {
		t.Fatalf("expected tuple 2 evicted")
	}
	if _, hit := memo.Do([]any{1}, compute(1)); hit {
		t.Fatalf("expected tuple 1 evicted after tuple 2 reinsertion")
	}
	if calls != 5 {
		t.Fatalf("expected 5 computations, got %d", calls)
	}
}

func TestMemoHitPreservesReferenceIdentity(t *testing.T) {
	memo := NewMemo()
	build := func() any { return []string{"derived"} }

	first, _ := memo.Do([]any{"k"}, build)
	second, hit := memo.Do([]any{"k"}, build)
	if !hit {
		t.Fatalf("expected hit")
	}
	if !StrictEquality(first, second) {
		t.Fatalf("expected identical slice reference on hit")
	}
}

func TestMemoResetClearsEntriesAndStats(t *testing.T) {
	memo := NewMemo()
	memo.Do([]any{"k"}, func() any { return 1 })
	memo.Do([]any{"k"}, func() any { return 1 })

	memo.Reset()
	if memo.Len() != 0 {
		t.Fatalf("expected no retained tuples after reset")
	}
	if stats := memo.Stats(); stats != (MemoStats{}) {
		t.Fatalf("expected zeroed stats after reset, got %+v", stats)
	}
	if _, hit := memo.Do([]any{"k"}, func() any { return 1 }); hit {
		t.Fatalf("expected recompute after reset")
	}
}

func TestStrictEqualityBehaviour(t *testing.T) {
	shared := []int{1, 2}
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"both nil", nil, nil, true},
		{"nil and value", nil, "a", false},
		{"type mismatch", 1, "1", false},
		{"same slice reference", shared, shared, true},
		{"equal slices different references", []int{1, 2}, []int{1, 2}, false},
		{"different map references", map[string]int{}, map[string]int{}, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := StrictEquality(tc.a, tc.b); got != tc.want {
				t.Fatalf("StrictEquality(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMemoCustomEquality(t *testing.T) {
	// Treat string arguments of equal length as matching.
	memo := NewMemo(WithEquality(func(a, b any) bool {
		as, aok := a.(string)
		bs, bok := b.(string)
		if aok && bok {
			return len(as) == len(bs)
		}
		return StrictEquality(a, b)
	}))

	memo.Do([]any{"abc"}, func() any { return 1 })
	if _, hit := memo.Do([]any{"xyz"}, func() any { return 2 }); !hit {
		t.Fatalf("expected custom equality to report a hit")
	}
}
