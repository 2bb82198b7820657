package airtable

import (
	"sync"
	"time"
)

// StateTTL bounds how long an OAuth flow may sit between /connect and
// /callback before the state token goes stale.
const StateTTL = 10 * time.Minute

type stateEntry struct {
	codeVerifier string
	expiresAt    time.Time
}

// StateStore maps a random state token to the PKCE code verifier created
// during /connect. Entries are single-use and expire after StateTTL so
// abandoned flows don't leak memory.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
	now     func() time.Time
}

func NewStateStore() *StateStore {
	return &StateStore{
		entries: make(map[string]stateEntry),
		now:     time.Now,
	}
}

func (s *StateStore) Save(state, codeVerifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = stateEntry{codeVerifier: codeVerifier, expiresAt: s.now().Add(StateTTL)}
}

// Consume removes and returns the verifier for state. A second call for
// the same state, or a call after expiry, fails.
func (s *StateStore) Consume(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[state]
	if !ok {
		return "", false
	}
	delete(s.entries, state)
	if s.now().After(entry.expiresAt) {
		return "", false
	}
	return entry.codeVerifier, true
}

// Sweep drops expired entries; called periodically by the janitor.
func (s *StateStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for state, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, state)
		}
	}
}
