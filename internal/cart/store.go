package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store persists carts between requests. Get never returns nil: a user
// without a saved cart gets an empty one.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
	// Lock takes the user's checkout lock. ok is false while another
	// checkout holds it. The lock expires on its own after LockTTL.
	Lock(ctx context.Context, userID uuid.UUID) (unlock Unlock, ok bool, err error)
}

type Unlock func(ctx context.Context) error

// LockTTL bounds how long a crashed checkout can block the next one.
const LockTTL = 30 * time.Second

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", userID)
}

func lockKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:lock:%s", userID)
}

func (r *RedisStore) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	val, err := r.client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart from redis: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}

	return &c, nil
}

// Save refreshes the TTL on every write.
func (r *RedisStore) Save(ctx context.Context, c *Cart) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	c.UpdatedAt = time.Now()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(c.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cart in redis: %w", err)
	}

	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart from redis: %w", err)
	}
	return nil
}

// Lock is SET NX with a random owner token; unlock deletes the key only while
// it still carries that token.
func (r *RedisStore) Lock(ctx context.Context, userID uuid.UUID) (Unlock, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}

	key := lockKey(userID)
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, LockTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock cart: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	return func(ctx context.Context) error {
		if err := unlockScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to unlock cart: %w", err)
		}
		return nil
	}, true, nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps serialized carts so callers never share a *Cart.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]memoryEntry
	locks map[uuid.UUID]time.Time
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		carts: make(map[uuid.UUID]memoryEntry),
		locks: make(map[uuid.UUID]time.Time),
		ttl:   ttl,
	}
}

func (m *MemoryStore) Get(_ context.Context, userID uuid.UUID) (*Cart, error) {
	m.mu.Lock()
	entry, ok := m.carts[userID]
	if ok && m.ttl > 0 && time.Now().After(entry.expiresAt) {
		delete(m.carts, userID)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return New(userID), nil
	}

	var c Cart
	if err := json.Unmarshal(entry.data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return &c, nil
}

func (m *MemoryStore) Save(_ context.Context, c *Cart) error {
	c.UpdatedAt = time.Now()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.UserID] = memoryEntry{data: data, expiresAt: c.UpdatedAt.Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func (m *MemoryStore) Lock(_ context.Context, userID uuid.UUID) (Unlock, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if expires, held := m.locks[userID]; held && now.Before(expires) {
		return nil, false, nil
	}
	expires := now.Add(LockTTL)
	m.locks[userID] = expires

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.locks[userID].Equal(expires) {
			delete(m.locks, userID)
		}
		return nil
	}, true, nil
}
