package store

import (
	"sync"
	"testing"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()

	if _, ok := m.Get("pellets_kg"); ok {
		t.Fatal("Get() on empty store ok = true, want false")
	}

	m.Set("pellets_kg", "25")
	got, ok := m.Get("pellets_kg")
	if !ok || got != "25" {
		t.Errorf("Get() = %q, %v, want %q, true", got, ok, "25")
	}
}

func TestMemorySubscribeFiltersKeys(t *testing.T) {
	m := NewMemory()

	var changes []Change
	m.Subscribe([]string{"eggs_used"}, func(c Change) {
		changes = append(changes, c)
	})

	m.Set("eggs_used", "3")
	m.Set("broken_eggs", "1")
	m.Set("eggs_used", "4")

	if len(changes) != 2 {
		t.Fatalf("received %d changes, want 2", len(changes))
	}
	if changes[0].HadOld {
		t.Error("first change HadOld = true, want false")
	}
	if changes[1].Old != "3" || changes[1].New != "4" {
		t.Errorf("second change = %+v, want Old=3 New=4", changes[1])
	}
}

func TestMemorySubscribeAllKeys(t *testing.T) {
	m := NewMemory()

	count := 0
	m.Subscribe(nil, func(Change) { count++ })

	m.Set("a", "1")
	m.Set("b", "2")

	if count != 2 {
		t.Errorf("handler called %d times, want 2", count)
	}
}

func TestMemoryUnsubscribe(t *testing.T) {
	m := NewMemory()

	count := 0
	unsubscribe := m.Subscribe([]string{"a"}, func(Change) { count++ })
	m.Set("a", "1")
	unsubscribe()
	m.Set("a", "2")

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}
}

func TestMemoryHandlerMayReadStore(t *testing.T) {
	m := NewMemory()

	var seen string
	m.Subscribe([]string{"a"}, func(Change) {
		seen, _ = m.Get("a")
		m.Set("b", "derived")
	})
	m.Set("a", "7")

	if seen != "7" {
		t.Errorf("handler read %q, want %q", seen, "7")
	}
	if v, _ := m.Get("b"); v != "derived" {
		t.Errorf("handler write = %q, want %q", v, "derived")
	}
}

func TestMemorySnapshotIsCopy(t *testing.T) {
	m := NewMemory()
	m.Set("a", "1")

	snap := m.Snapshot()
	snap["a"] = "changed"

	if v, _ := m.Get("a"); v != "1" {
		t.Errorf("store value = %q after mutating snapshot, want %q", v, "1")
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	m.Set("a", "1")
	m.Delete("a")

	if _, ok := m.Get("a"); ok {
		t.Error("Get() after Delete() ok = true, want false")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	m.Subscribe(nil, func(Change) {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Set("counter", "1")
				_ = m.Snapshot()
			}
		}()
	}
	wg.Wait()

	if v, _ := m.Get("counter"); v != "1" {
		t.Errorf("Get() = %q, want %q", v, "1")
	}
}
