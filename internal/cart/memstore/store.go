// Package memstore keeps carts in process memory. Entries idle for longer
// than the configured TTL are treated as expired sessions.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
)

type entry struct {
	lines   []cart.Line
	updated time.Time
	touched time.Time
}

type Store struct {
	mu    sync.RWMutex
	carts map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

var _ cart.Store = (*Store)(nil)

// New returns an empty store. A zero ttl disables expiry.
func New(ttl time.Duration) *Store {
	return &Store{
		carts: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) > s.ttl
}

func (s *Store) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	e, ok := s.carts[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(e, s.now()) {
		return cart.New(sessionID), nil
	}

	lines := make([]cart.Line, len(e.lines))
	copy(lines, e.lines)
	return &cart.Cart{SessionID: sessionID, Lines: lines, UpdatedAt: e.updated}, nil
}

func (s *Store) Save(_ context.Context, c *cart.Cart) error {
	lines := make([]cart.Line, len(c.Lines))
	copy(lines, c.Lines)

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)
	s.carts[c.SessionID] = entry{lines: lines, updated: c.UpdatedAt, touched: now}
	return nil
}

func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.carts {
		if !s.expired(e, now) {
			n++
		}
	}
	return n
}

// sweep drops expired sessions. Caller holds the write lock.
func (s *Store) sweep(now time.Time) {
	if s.ttl == 0 {
		return
	}
	for id, e := range s.carts {
		if s.expired(e, now) {
			delete(s.carts, id)
		}
	}
}
