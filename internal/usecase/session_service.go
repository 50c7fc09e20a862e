package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/styleseeker/client/internal/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionService keeps one ViewState per browser session
type SessionService struct {
	cache domain.CacheRepository
	ttl   time.Duration
	newID func() string
}

// NewSessionService creates a session service storing sessions in cache
func NewSessionService(cache domain.CacheRepository, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &SessionService{
		cache: cache,
		ttl:   ttl,
		newID: uuid.NewString,
	}
}

// Create starts a new idle session
func (s *SessionService) Create(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(s.newID())
	if err := s.cache.Set(ctx, sessionKey(session.ID), session, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Get returns the session for id and extends its lifetime.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	value, err := s.cache.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	session, ok := value.(*domain.Session)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Sliding expiry
	if err := s.cache.Set(ctx, sessionKey(id), session, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	return session, nil
}

// GetOrCreate returns the session for id, or a new one when id is unknown.
// created reports whether a new session was started.
func (s *SessionService) GetOrCreate(ctx context.Context, id string) (session *domain.Session, created bool, err error) {
	session, err = s.Get(ctx, id)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, err
	}

	session, err = s.Create(ctx)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// Delete ends a session. It returns ErrSessionNotFound when id is unknown
// or already expired.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	exists, err := s.cache.Exists(ctx, sessionKey(id))
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if !exists {
		return domain.ErrSessionNotFound
	}
	return s.cache.Delete(ctx, sessionKey(id))
}

// TTL returns how long an idle session lives
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func sessionKey(id string) string {
	return "session:" + id
}
