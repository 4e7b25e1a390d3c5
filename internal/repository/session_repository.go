package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"invoice-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// SessionRepository tracks issued tokens so logout can revoke them.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	IsSessionActive(ctx context.Context, sessionID string) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	sessionData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.getSessionKey(session.ID), sessionData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *sessionRepository) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.getSessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.getSessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) getSessionKey(sessionID string) string {
	return "invoice_session:" + sessionID
}

// memorySessionRepository serves single-instance deployments without Redis.
type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]time.Time
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: map[string]time.Time{}}
}

func (r *memorySessionRepository) CreateSession(_ context.Context, session *models.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session.ExpiresAt
	return nil
}

func (r *memorySessionRepository) IsSessionActive(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiresAt, ok := r.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		delete(r.sessions, sessionID)
		return false, nil
	}
	return true, nil
}

func (r *memorySessionRepository) DeleteSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
