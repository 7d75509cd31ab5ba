package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the portal's view of a logged-in user.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id,omitempty"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsAdmin() bool {
	for _, r := range s.Roles {
		if r == "ADMIN" {
			return true
		}
	}
	return false
}

// Expired reports whether the backend token has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Repository interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type redisRepository struct {
	redis *redis.Client
}

func NewRedisRepository(redis *redis.Client) Repository {
	return &redisRepository{redis: redis}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *redisRepository) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.redis.Set(ctx, sessionKey(s.ID), data, ttl).Err()
}

func (r *redisRepository) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	return r.redis.Del(ctx, sessionKey(id)).Err()
}

type memoryEntry struct {
	session  Session
	deadline time.Time
}

type memoryRepository struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryRepository keeps sessions in process. Used by tests and single
// instance deployments.
func NewMemoryRepository() Repository {
	return &memoryRepository{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (r *memoryRepository) Save(_ context.Context, s *Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = memoryEntry{session: *s, deadline: r.now().Add(ttl)}
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !r.now().Before(entry.deadline) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	s := entry.session
	return &s, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
