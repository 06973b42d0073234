package cart_models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joy095/salon/logger"
)

const (
	cartKeyPrefix = "cart:"
	cartTTL       = 7 * 24 * time.Hour
)

// Store persists per-customer carts between requests. RedisStore is the
// production implementation; MemoryStore backs tests.
type Store interface {
	Get(ctx context.Context, customerID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, customerID string) error
}

// RedisStore keeps carts in Redis with a sliding TTL.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Get(ctx context.Context, customerID string) (*Cart, error) {
	raw, err := s.Client.Get(ctx, cartKeyPrefix+customerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{CustomerID: customerID}, nil
		}
		logger.ErrorLogger.Errorf("Redis error reading cart for %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	cart := &Cart{}
	if err := json.Unmarshal([]byte(raw), cart); err != nil {
		logger.ErrorLogger.Errorf("Corrupt cart record for %s: %v", customerID, err)
		return &Cart{CustomerID: customerID}, nil
	}
	return cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	if err := s.Client.Set(ctx, cartKeyPrefix+cart.CustomerID, raw, cartTTL).Err(); err != nil {
		logger.ErrorLogger.Errorf("Redis error saving cart for %s: %v", cart.CustomerID, err)
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, customerID string) error {
	if err := s.Client.Del(ctx, cartKeyPrefix+customerID).Err(); err != nil {
		logger.ErrorLogger.Errorf("Redis error clearing cart for %s: %v", customerID, err)
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MemoryStore is a map-backed Store for tests and single-node development.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

func (s *MemoryStore) Get(_ context.Context, customerID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cart, ok := s.carts[customerID]; ok {
		clone := *cart
		clone.Items = append([]CartItem(nil), cart.Items...)
		return &clone, nil
	}
	return &Cart{CustomerID: customerID}, nil
}

func (s *MemoryStore) Save(_ context.Context, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *cart
	clone.Items = append([]CartItem(nil), cart.Items...)
	s.carts[cart.CustomerID] = &clone
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
	return nil
}
