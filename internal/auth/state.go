package auth

import (
	"sync"
	"time"

	"github.com/stemleague/server/internal/auth/oauth"
)

// DefaultStateTTL bounds how long an issued login nonce stays redeemable.
const DefaultStateTTL = 10 * time.Minute

// StateStore records the nonces handed out when a login is initiated and
// consumes them exactly once on callback. A callback whose state was never
// issued, already used, or expired is rejected, which is the CSRF
// protection for the OAuth redirect.
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateStore{
		states: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue generates a new nonce and records it.
func (s *StateStore) Issue() (string, error) {
	state, err := oauth.GenerateState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.states[state] = s.now().Add(s.ttl)
	return state, nil
}

// Consume redeems a nonce. It returns true at most once per issued nonce,
// and false for unknown, reused, or expired ones.
func (s *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return s.now().Before(expiry)
}

// prune drops expired entries; called with the lock held.
func (s *StateStore) prune() {
	now := s.now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}
