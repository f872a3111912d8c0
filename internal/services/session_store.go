package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideadmin/internal/models"
	"rideadmin/pkg/cache"
)

const (
	sessionKeyPrefix      = "session:"
	sessionRevokedChannel = "sessions:revoked"
)

// SessionStore keeps admin sessions in the shared cache so any server
// instance can authenticate them.
type SessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSessionStore(c cache.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, session *models.Session) error {
	ttl := s.ttl
	if !session.ExpiresAt.IsZero() {
		ttl = time.Until(session.ExpiresAt)
		if ttl <= 0 {
			return ErrSessionNotFound
		}
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+session.ID, session, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.cache.Get(ctx, sessionKeyPrefix+id, &session); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

// Delete removes the session and tells every instance that it is gone.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, sessionKeyPrefix+id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := s.cache.Publish(ctx, sessionRevokedChannel, id); err != nil {
		return fmt.Errorf("failed to publish session revocation: %w", err)
	}
	return nil
}

// Revocations streams the ids of deleted sessions until stop is called.
func (s *SessionStore) Revocations(ctx context.Context) (<-chan string, func(), error) {
	return s.cache.Subscribe(ctx, sessionRevokedChannel)
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
