package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/models"
	"github.com/adanyl0v/go-tasklist/internal/tasklist"
)

type sessionEntry struct {
	// Serializes every call into store.
	mu      sync.Mutex
	session models.Session
	store   *tasklist.Store
}

type sessionServiceImpl struct {
	logger      zerolog.Logger
	ttl         time.Duration
	idGenerator string
	maxSessions int
	recorder    EventRecorder
	now         tasklist.Clock

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionService(
	logger zerolog.Logger,
	params SessionParams,
) (SessionService, error) {
	if _, err := tasklist.NewIDGenerator(params.IDGenerator); err != nil {
		return nil, err
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", params.TTL)
	}
	if params.MaxSessions < 0 {
		return nil, fmt.Errorf("max sessions must not be negative, got %d", params.MaxSessions)
	}

	now := params.Clock
	if now == nil {
		now = time.Now
	}

	return &sessionServiceImpl{
		logger:      logger,
		ttl:         params.TTL,
		idGenerator: params.IDGenerator,
		maxSessions: params.MaxSessions,
		recorder:    params.Recorder,
		now:         now,
		sessions:    make(map[string]*sessionEntry),
	}, nil
}

func (s *sessionServiceImpl) CreateSession(ctx context.Context, userID string) (*models.Session, error) {
	sessionUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session uuid")
		return nil, err
	}

	ids, err := tasklist.NewIDGenerator(s.idGenerator)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create id generator")
		return nil, err
	}

	now := s.now()
	entry := &sessionEntry{
		session: models.Session{
			ID:        sessionUUID.String(),
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		},
	}

	storeLogger := s.logger.With().
		Str("session_id", entry.session.ID).
		Logger()
	entry.store = tasklist.New(storeLogger, ids, s.now)
	if s.recorder != nil {
		sessionID := entry.session.ID
		entry.store.Subscribe(tasklist.ObserverFunc(func(ev tasklist.Event) {
			s.recorder.Record(sessionID, ev)
		}))
	}

	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.pruneLocked(now)
		if len(s.sessions) >= s.maxSessions {
			s.mu.Unlock()
			s.logger.Warn().
				Int("max_sessions", s.maxSessions).
				Msg("session limit reached")
			return nil, ErrTooManySessions
		}
	}
	s.sessions[entry.session.ID] = entry
	s.mu.Unlock()

	s.logger.Debug().
		Str("session_id", entry.session.ID).
		Time("expires_at", entry.session.ExpiresAt).
		Msg("created session")

	s.logger.Info().
		Str("session_id", entry.session.ID).
		Str("user_id", userID).
		Msg("created session")
	session := entry.session
	return &session, nil
}

func (s *sessionServiceImpl) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session := entry.session
	return &session, nil
}

func (s *sessionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		s.logger.Error().
			Str("session_id", sessionID).
			Msg("session not found")
		return ErrSessionNotFound
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Msg("deleted session")
	return nil
}

func (s *sessionServiceImpl) DeleteUserSessions(ctx context.Context, userID, keepSessionID string) int {
	if userID == "" {
		return 0
	}

	s.mu.Lock()
	deleted := 0
	for id, entry := range s.sessions {
		if entry.session.UserID == userID && id != keepSessionID {
			delete(s.sessions, id)
			deleted++
		}
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("user_id", userID).
		Int("count", deleted).
		Msg("deleted user sessions")
	return deleted
}

func (s *sessionServiceImpl) WithStore(
	ctx context.Context,
	sessionID string,
	fn func(store *tasklist.Store) error,
) error {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	err = ctx.Err()
	if err != nil {
		return err
	}
	return fn(entry.store)
}

func (s *sessionServiceImpl) PruneExpired(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pruneLocked(now)
}

// pruneLocked must be called with s.mu held.
func (s *sessionServiceImpl) pruneLocked(now time.Time) int {
	pruned := 0
	for id, entry := range s.sessions {
		if entry.session.Expired(now) {
			delete(s.sessions, id)
			pruned++
		}
	}

	if pruned > 0 {
		s.logger.Info().
			Int("count", pruned).
			Int("remaining", len(s.sessions)).
			Msg("pruned expired sessions")
	}
	return pruned
}

func (s *sessionServiceImpl) lookup(sessionID string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		s.logger.Warn().
			Str("session_id", sessionID).
			Msg("session not found")
		return nil, ErrSessionNotFound
	}

	if entry.session.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()

		s.logger.Warn().
			Str("session_id", sessionID).
			Time("expires_at", entry.session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}
	return entry, nil
}
