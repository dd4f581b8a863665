package otp

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means never
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore keeps codes in process memory; they are lost on restart.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	codes  map[string]entry
	grants map[string]entry
}

// NewMemoryStore creates a store whose entries expire after ttl. A zero ttl
// keeps entries until they are overwritten.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		codes:  make(map[string]entry),
		grants: make(map[string]entry),
	}
}

func (s *MemoryStore) newEntry(value string) entry {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

func (s *MemoryStore) Set(_ context.Context, key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[key] = s.newEntry(code)
	return nil
}

func (s *MemoryStore) Validate(_ context.Context, key, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[key]
	if !ok {
		return false, nil
	}
	if e.expired(s.now()) {
		delete(s.codes, key)
		return false, nil
	}
	return e.value == code, nil
}

func (s *MemoryStore) Grant(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grants[key] = s.newEntry("")
	return nil
}

func (s *MemoryStore) ConsumeGrant(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.grants[key]
	if !ok {
		return false, nil
	}
	delete(s.grants, key)
	return !e.expired(s.now()), nil
}
