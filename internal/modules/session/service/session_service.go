package service

import (
	"context"
	"fmt"
	"sync"

	"mindflow/internal/modules/session/domain"
	sessionout "mindflow/internal/modules/session/port/out"
	"mindflow/internal/platform/clock"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/platform/id"
	"mindflow/internal/platform/logger"
)

// SessionService holds one open session per kind. A result that arrives for a
// session which was closed or reopened in the meantime is dropped.
type SessionService struct {
	clock  clock.Clock
	idGen  id.Generator
	active sessionout.ActiveSessionStore
	log    *logger.Logger

	mu       sync.Mutex
	sessions map[domain.Kind]domain.Session
	subs     map[int]chan struct{}
	nextSub  int
}

func NewSessionService(clock clock.Clock, idGen id.Generator, active sessionout.ActiveSessionStore, log *logger.Logger) *SessionService {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionService{
		clock:    clock,
		idGen:    idGen,
		active:   active,
		log:      log,
		sessions: map[domain.Kind]domain.Session{},
		subs:     map[int]chan struct{}{},
	}
}

// Open replaces any session of the same kind with a new loading one.
func (s *SessionService) Open(kind domain.Kind, subject, courseID, subtopicID string) (domain.Session, error) {
	if err := kind.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	now := s.clock.Now()
	session := domain.Session{
		ID:         s.idGen.New(),
		Kind:       kind,
		Subject:    subject,
		CourseID:   courseID,
		SubtopicID: subtopicID,
		Status:     domain.StatusLoading,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	s.mu.Lock()
	s.sessions[kind] = session
	s.mu.Unlock()
	s.notify()
	return session.Clone(), nil
}

// Resolve applies fn to the session with sessionID and persists the result
// as the most recent session. It reports false when that session is gone.
func (s *SessionService) Resolve(ctx context.Context, kind domain.Kind, sessionID string, fn func(*domain.Session)) (domain.Session, bool) {
	s.mu.Lock()
	current, ok := s.sessions[kind]
	if !ok || current.ID != sessionID {
		s.mu.Unlock()
		return domain.Session{}, false
	}
	next := current.Clone()
	fn(&next)
	next.UpdatedAt = s.clock.Now()
	s.sessions[kind] = next
	s.mu.Unlock()
	s.notify()

	if s.active != nil {
		if err := s.active.SaveActive(ctx, next); err != nil {
			s.log.Warn("persist active session", "kind", string(kind), "error", err)
		}
	}
	return next.Clone(), true
}

func (s *SessionService) Get(kind domain.Kind) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[kind]
	if !ok {
		return domain.Session{}, false
	}
	return session.Clone(), true
}

// List returns open sessions in kind order.
func (s *SessionService) List() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Session, 0, len(s.sessions))
	for _, kind := range domain.Kinds {
		if session, ok := s.sessions[kind]; ok {
			out = append(out, session.Clone())
		}
	}
	return out
}

func (s *SessionService) Close(kind domain.Kind) bool {
	s.mu.Lock()
	_, ok := s.sessions[kind]
	delete(s.sessions, kind)
	s.mu.Unlock()
	if ok {
		s.notify()
	}
	return ok
}

func (s *SessionService) Last(ctx context.Context) (domain.Session, error) {
	if s.active == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return s.active.LoadActive(ctx)
}

func (s *SessionService) Forget(ctx context.Context) error {
	if s.active == nil {
		return nil
	}
	return s.active.ClearActive(ctx)
}

func (s *SessionService) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, key)
		s.mu.Unlock()
	}
}

func (s *SessionService) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
