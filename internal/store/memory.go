package store

import "sync"

type subscriber struct {
	id      uint64
	keys    map[string]struct{}
	handler ChangeHandler
}

func (s subscriber) wants(key string) bool {
	if len(s.keys) == 0 {
		return true
	}
	_, ok := s.keys[key]
	return ok
}

// Memory is the in-process Store implementation.
//
// Each Get, Set and Snapshot is atomic on its own. Handlers run synchronously
// on the writer's goroutine after the lock is released, in registration order,
// so a handler may read or write the store without deadlocking.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string

	subMu  sync.RWMutex
	subs   []subscriber
	nextID uint64
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the stored value for key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key and notifies subscribers of key.
func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	old, hadOld := m.values[key]
	m.values[key] = value
	m.mu.Unlock()

	change := Change{Key: key, Old: old, New: value, HadOld: hadOld}
	for _, sub := range m.subscribersFor(key) {
		sub.handler(change)
	}
}

// Delete removes key without notifying subscribers.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// Snapshot copies every stored value.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Subscribe registers handler for keys, or for every key if none are given.
func (m *Memory) Subscribe(keys []string, handler ChangeHandler) func() {
	if handler == nil {
		return func() {}
	}

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	m.subMu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, keys: set, handler: handler})
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, sub := range m.subs {
			if sub.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Memory) subscribersFor(key string) []subscriber {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	var out []subscriber
	for _, sub := range m.subs {
		if sub.wants(key) {
			out = append(out, sub)
		}
	}
	return out
}
