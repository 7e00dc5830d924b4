package cache

import "testing"

func TestPutEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to be cached")
	}
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted as least recently used")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a to survive, got %v, %v", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("expected c to be cached, got %v, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestPutUpdatesExistingEntryWithoutGrowing(t *testing.T) {
	c := New[string, string](1)

	c.Put("alpha", "x")
	c.Put("alpha", "y")

	if c.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", c.Len())
	}
	if v, _ := c.Get("alpha"); v != "y" {
		t.Fatalf("expected updated value, got %q", v)
	}
}

func TestRemoveAndPurge(t *testing.T) {
	c := New[int, bool](0)
	c.Put(1, true)
	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Fatalf("expected removed key to be gone")
	}

	c.Put(2, true)
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Purge, got %d", c.Len())
	}
}
