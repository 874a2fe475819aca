package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store persists carts and customer info between page reloads. Two entries
// per (session, location) pair, written after every mutation and cleared only
// on successful submission or an explicit reset.
type Store interface {
	LoadCart(session, location string) (*Cart, error)
	SaveCart(session, location string, c *Cart) error
	DeleteCart(session, location string) error
	LoadCustomerInfo(session, location string) (*CustomerInfo, error)
	SaveCustomerInfo(session, location string, info *CustomerInfo) error
	DeleteCustomerInfo(session, location string) error
}

func cartKey(session, location string) string {
	return fmt.Sprintf("cart:%s:%s", session, location)
}

func customerKey(session, location string) string {
	return fmt.Sprintf("customer:%s:%s", session, location)
}

// sessionTTL keeps abandoned carts from accumulating forever.
const sessionTTL = 7 * 24 * time.Hour

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) LoadCart(session, location string) (*Cart, error) {
	raw, err := s.Client.Get(context.Background(), cartKey(session, location)).Bytes()
	if err == redis.Nil {
		return &Cart{LocationID: location}, nil
	}
	if err != nil {
		return nil, err
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisStore) SaveCart(session, location string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.Client.Set(context.Background(), cartKey(session, location), raw, sessionTTL).Err()
}

func (s *RedisStore) DeleteCart(session, location string) error {
	return s.Client.Del(context.Background(), cartKey(session, location)).Err()
}

func (s *RedisStore) LoadCustomerInfo(session, location string) (*CustomerInfo, error) {
	raw, err := s.Client.Get(context.Background(), customerKey(session, location)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var info CustomerInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *RedisStore) SaveCustomerInfo(session, location string, info *CustomerInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return s.Client.Set(context.Background(), customerKey(session, location), raw, sessionTTL).Err()
}

func (s *RedisStore) DeleteCustomerInfo(session, location string) error {
	return s.Client.Del(context.Background(), customerKey(session, location)).Err()
}

// MemoryStore backs tests and deployments without Redis. Values are kept
// JSON-serialized for parity with the Redis store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) LoadCart(session, location string) (*Cart, error) {
	s.mu.RLock()
	raw, ok := s.entries[cartKey(session, location)]
	s.mu.RUnlock()
	if !ok {
		return &Cart{LocationID: location}, nil
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MemoryStore) SaveCart(session, location string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[cartKey(session, location)] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeleteCart(session, location string) error {
	s.mu.Lock()
	delete(s.entries, cartKey(session, location))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadCustomerInfo(session, location string) (*CustomerInfo, error) {
	s.mu.RLock()
	raw, ok := s.entries[customerKey(session, location)]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var info CustomerInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *MemoryStore) SaveCustomerInfo(session, location string, info *CustomerInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[customerKey(session, location)] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeleteCustomerInfo(session, location string) error {
	s.mu.Lock()
	delete(s.entries, customerKey(session, location))
	s.mu.Unlock()
	return nil
}
