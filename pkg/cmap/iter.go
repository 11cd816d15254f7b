package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration. Locks are acquired
// shard by shard, so the view may not be consistent.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Count())
	m.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns all values.
func (m *Map[V]) Values() []V {
	values := make([]V, 0, m.Count())
	m.Range(func(_ string, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// GetOrSet returns the existing value for a key, or sets and returns
// the given value if absent. The bool reports whether the key existed.
func (m *Map[V]) GetOrSet(key string, value V) (V, bool) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[key]; ok {
		return existing, true
	}
	s.items[key] = value
	return value, false
}

// SetIfAbsent sets the value only if the key does not exist.
// Returns true if the value was set.
func (m *Map[V]) SetIfAbsent(key string, value V) bool {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = value
	return true
}

// Pop removes a key and returns its value.
func (m *Map[V]) Pop(key string) (V, bool) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return val, ok
}

// Upsert atomically updates or inserts a value. The callback receives
// the existing value (if any) and whether the key exists, and returns
// the value to store.
func (m *Map[V]) Upsert(key string, value V, fn func(existing V, exists bool) V) V {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.items[key]
	if exists {
		value = fn(existing, true)
	} else {
		value = fn(value, false)
	}
	s.items[key] = value
	return value
}

// DeleteFunc removes every key for which the predicate returns true
// and reports how many entries were removed.
func (m *Map[V]) DeleteFunc(fn func(key string, value V) bool) int {
	removed := 0
	for _, s := range m.shards {
		s.mu.Lock()
		for k, v := range s.items {
			if fn(k, v) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}
