package sms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrCodeNotFound = errors.New("verification code not found")

// CodeStore holds pending verification-code hashes keyed by phone number.
type CodeStore interface {
	Set(ctx context.Context, phone, hash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// RedisCodeStore keeps codes in Redis so they survive restarts and expire on
// their own.
type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) Set(ctx context.Context, phone, hash string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKey(phone), hash, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, phone string) (string, error) {
	value, err := s.client.Get(ctx, codeKey(phone)).Result()
	if err == redis.Nil {
		return "", ErrCodeNotFound
	}
	return value, err
}

func (s *RedisCodeStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, codeKey(phone)).Err()
}

func codeKey(phone string) string {
	return "sms-code:" + phone
}

type inMemoryEntry struct {
	hash    string
	expires time.Time
}

// InMemoryCodeStore is used for tests and local scenarios.
type InMemoryCodeStore struct {
	mu    sync.RWMutex
	codes map[string]inMemoryEntry
}

func NewInMemoryCodeStore() *InMemoryCodeStore {
	return &InMemoryCodeStore{codes: make(map[string]inMemoryEntry)}
}

func (s *InMemoryCodeStore) Set(_ context.Context, phone, hash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = inMemoryEntry{hash: hash, expires: time.Now().Add(ttl)}
	return nil
}

func (s *InMemoryCodeStore) Get(_ context.Context, phone string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.codes[phone]
	if !ok || time.Now().After(entry.expires) {
		return "", ErrCodeNotFound
	}
	return entry.hash, nil
}

func (s *InMemoryCodeStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
	return nil
}
