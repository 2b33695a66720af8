package store

import "sync"

// Mem is an in-memory key-value store with the same surface as Bolt. It
// backs sessions that opt out of persistence, and tests.
type Mem struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMem returns an empty in-memory store.
func NewMem() *Mem {
	return &Mem{values: make(map[string]string)}
}

func (s *Mem) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Mem) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Mem) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
