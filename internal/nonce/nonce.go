// Package nonce issues single-use anti-replay tokens scoped to an action.
package nonce

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL matches the lifetime of an admin nonce.
const DefaultTTL = 24 * time.Hour

type entry struct {
	action  string
	expires time.Time
}

// Store keeps issued tokens in memory until they are verified or expire.
// It implements core.Tokens.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	tokens map[string]entry
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long an issued token stays valid.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		s.ttl = d
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty token store.
func New(opts ...Option) *Store {
	s := &Store{
		ttl:    DefaultTTL,
		now:    time.Now,
		tokens: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a new token for action. Tokens are lowercase hex without
// dashes so they survive query-string sanitizing unchanged.
func (s *Store) Issue(action string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	token := strings.ReplaceAll(id.String(), "-", "")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.tokens[token] = entry{action: action, expires: s.now().Add(s.ttl)}
	return token, nil
}

// Verify reports whether token was issued for action and has not expired.
// A token is consumed by the first Verify call that finds it, whatever the
// result.
func (s *Store) Verify(token, action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tokens[token]
	if !ok {
		return false
	}
	delete(s.tokens, token)
	return e.action == action && s.now().Before(e.expires)
}

// Len returns the number of outstanding tokens.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *Store) prune() {
	now := s.now()
	for token, e := range s.tokens {
		if !now.Before(e.expires) {
			delete(s.tokens, token)
		}
	}
}
