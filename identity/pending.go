// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"sync"
	"time"
)

type pendingAuth struct {
	host      string
	software  string
	createdAt time.Time
}

// pendingStore holds in-flight authorization attempts keyed by state
// token. Entries are single-use and expire after a fixed TTL; expired
// entries are swept opportunistically on every access, so a replayed
// or stale state behaves exactly like an unknown one.
type pendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingAuth
}

func newPendingStore(ttl time.Duration) *pendingStore {
	return &pendingStore{
		ttl:     ttl,
		entries: make(map[string]pendingAuth),
	}
}

func (s *pendingStore) put(state string, p pendingAuth) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	p.createdAt = time.Now()
	s.entries[state] = p
}

// take removes and returns the pending attempt for a state token.
func (s *pendingStore) take(state string) (pendingAuth, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	p, ok := s.entries[state]
	if ok {
		delete(s.entries, state)
	}
	return p, ok
}

// sweep drops expired entries. Callers must hold mu.
func (s *pendingStore) sweep() {
	cutoff := time.Now().Add(-s.ttl)
	for state, p := range s.entries {
		if p.createdAt.Before(cutoff) {
			delete(s.entries, state)
		}
	}
}
