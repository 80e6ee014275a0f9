package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"comanda/models"

	"github.com/redis/go-redis/v9"
)

// Store holds the server-authoritative cart per user. Loading a missing cart
// returns an empty one; the cart comes into existence on first save.
type Store interface {
	Load(ctx context.Context, userID string) (models.Cart, error)
	Save(ctx context.Context, cart models.Cart) error
	Clear(ctx context.Context, userID string) error
}

const cartTTL = 7 * 24 * time.Hour

// RedisStore keeps carts as JSON under cart:<userID>. Session-scoped data, so
// it carries a TTL rather than living forever.
type RedisStore struct {
	Conn *redis.Client
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (s *RedisStore) Load(ctx context.Context, userID string) (models.Cart, error) {
	raw, err := s.Conn.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return models.Cart{UserID: userID}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// A corrupt cart is indistinguishable from no cart.
		return models.Cart{UserID: userID}, nil
	}
	cart.UserID = userID
	return cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart models.Cart) error {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.Conn.Set(ctx, cartKey(cart.UserID), data, cartTTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	return s.Conn.Del(ctx, cartKey(userID)).Err()
}

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]models.Cart)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return models.Cart{UserID: userID}, nil
	}
	return cart, nil
}

func (s *MemoryStore) Save(_ context.Context, cart models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart.UpdatedAt = time.Now()
	s.carts[cart.UserID] = cart
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
