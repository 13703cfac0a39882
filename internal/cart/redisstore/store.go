// Package redisstore keeps carts in Redis as JSON documents, one key per
// session. The key TTL is refreshed on every save so idle sessions expire.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/cache"
)

const operation = "cart"

type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

var _ cart.Store = (*Store)(nil)

func New(c cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

func (s *Store) key(sessionID string) string {
	return s.cache.GenerateKey(operation, sessionID)
}

func (s *Store) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	raw, err := s.cache.Get(ctx, s.key(sessionID))
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %q: %w", sessionID, err)
	}
	if raw == "" {
		return cart.New(sessionID), nil
	}

	var c cart.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("redisstore: decode %q: %w", sessionID, err)
	}
	c.SessionID = sessionID
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *cart.Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("redisstore: encode %q: %w", c.SessionID, err)
	}
	if err := s.cache.Set(ctx, s.key(c.SessionID), b, s.ttl); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", c.SessionID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, s.key(sessionID)); err != nil {
		return fmt.Errorf("redisstore: delete %q: %w", sessionID, err)
	}
	return nil
}
