package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("preferences not found")

type Repository interface {
	Get(ctx context.Context, username string) (*Preferences, error)
	Save(ctx context.Context, p *Preferences) error
	Delete(ctx context.Context, username string) error
}

type redisRepository struct {
	redis *redis.Client
}

func NewRedisRepository(redis *redis.Client) Repository {
	return &redisRepository{redis: redis}
}

func preferencesKey(username string) string {
	return "preferences:" + username
}

func (r *redisRepository) Get(ctx context.Context, username string) (*Preferences, error) {
	data, err := r.redis.Get(ctx, preferencesKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return &p, nil
}

func (r *redisRepository) Save(ctx context.Context, p *Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.redis.Set(ctx, preferencesKey(p.Username), data, 0).Err()
}

func (r *redisRepository) Delete(ctx context.Context, username string) error {
	return r.redis.Del(ctx, preferencesKey(username)).Err()
}

type memoryRepository struct {
	mu    sync.RWMutex
	prefs map[string]Preferences
}

func NewMemoryRepository() Repository {
	return &memoryRepository{prefs: make(map[string]Preferences)}
}

func (r *memoryRepository) Get(_ context.Context, username string) (*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prefs[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepository) Save(_ context.Context, p *Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[p.Username] = *p
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prefs, username)
	return nil
}
