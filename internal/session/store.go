package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Bearer tokens live under a fixed key prefix, one entry per session id.
const tokenKeyPrefix = "session:token:"

// Store persists the bearer token between requests. The token is written on
// login, cleared only by explicit logout, and read on every outgoing call.
type Store interface {
	Token(ctx context.Context, sessionID string) (string, error)
	SetToken(ctx context.Context, sessionID, token string) error
	Clear(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  24 * time.Hour,
	}
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (s *RedisStore) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, tokenKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) SetToken(ctx context.Context, sessionID, token string) error {
	return s.client.Set(ctx, tokenKeyPrefix+sessionID, token, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, tokenKeyPrefix+sessionID).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore keeps tokens in process memory. Used when Redis is disabled
// and throughout the tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Token(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[sessionID], nil
}

func (s *MemoryStore) SetToken(ctx context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sessionID] = token
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}
