package cache

import (
	"testing"
	"time"
)

func TestLRU_EvictsLeastRecent(t *testing.T) {
	c := New[string, int](2)
	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok { // a becomes MRU
		t.Fatalf("a missing")
	}
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("evicted = %v", evicted)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestLRU_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, string](4)
	c.now = func() time.Time { return now }

	c.AddTTL("k", "v", time.Minute)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("fresh get = %q %v", v, ok)
	}
	now = now.Add(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry returned")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not removed")
	}
}

func TestLRU_GetOrAdd(t *testing.T) {
	c := New[int, string](2)
	v, made := c.GetOrAdd(1, func() string { return "one" })
	if !made || v != "one" {
		t.Fatalf("first GetOrAdd = %q %v", v, made)
	}
	v, made = c.GetOrAdd(1, func() string { return "uno" })
	if made || v != "one" {
		t.Fatalf("second GetOrAdd = %q %v", v, made)
	}
}

func TestNew_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New[string, int](0)
}
