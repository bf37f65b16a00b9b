package lrucache

import "testing"

// TestLRUCorrectness is testable property 3 from spec §8: after
// inserting more distinct keys than capacity, only the N most
// recently inserted remain.
func TestLRUCorrectness(t *testing.T) {
	c := New[int, string](3)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")
	c.Add(4, "d") // evicts 1

	if _, ok := c.Get(1); ok {
		t.Fatal("expected key 1 to be evicted")
	}
	for k, want := range map[int]string{2: "b", 3: "c", 4: "d"} {
		got, ok := c.Get(k)
		if !ok || got != want {
			t.Fatalf("key %d: got (%q, %v), want (%q, true)", k, got, ok, want)
		}
	}
}

func TestLRUPromotesOnGet(t *testing.T) {
	c := New[int, string](2)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Get(1) // promotes 1, so 2 is now LRU
	c.Add(3, "c")

	if _, ok := c.Get(2); ok {
		t.Fatal("expected key 2 to have been evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected key 1 to survive, it was just promoted")
	}
}

func TestLRUReplaceExisting(t *testing.T) {
	c := New[int, string](2)
	c.Add(1, "a")
	c.Add(1, "z")
	got, ok := c.Get(1)
	if !ok || got != "z" {
		t.Fatalf("expected replaced value z, got (%q, %v)", got, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("expected len 1, got %d", c.Len())
	}
}

func TestLRUMissCounter(t *testing.T) {
	c := New[int, string](2)
	c.Get(99)
	c.Get(98)
	if c.Misses() != 2 {
		t.Fatalf("expected 2 misses, got %d", c.Misses())
	}
}

func TestLRURecentKeyShortcut(t *testing.T) {
	c := New[int, string](2)
	c.Add(1, "a")
	c.Get(1)
	c.Get(1)
	if c.Hits() != 2 {
		t.Fatalf("expected 2 hits via recent-key shortcut, got %d", c.Hits())
	}
}

func TestLRUClearResetsEverything(t *testing.T) {
	c := New[int, string](2)
	c.Add(1, "a")
	c.Get(1)
	c.Get(99)
	c.Clear()

	if c.Len() != 0 || c.Hits() != 0 || c.Misses() != 0 || c.Evictions() != 0 {
		t.Fatalf("expected fully reset cache, got len=%d hits=%d misses=%d evictions=%d",
			c.Len(), c.Hits(), c.Misses(), c.Evictions())
	}
	if _, ok := c.Get(1); ok {
		t.Fatal("expected cache to be empty after Clear")
	}
}

func TestLREvictionCounter(t *testing.T) {
	c := New[int, string](1)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")
	if c.Evictions() != 2 {
		t.Fatalf("expected 2 evictions, got %d", c.Evictions())
	}
}
