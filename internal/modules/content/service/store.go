package service

import (
	"context"
	"sync"

	"mindflow/internal/modules/content/domain"
	contentout "mindflow/internal/modules/content/port/out"
	"mindflow/internal/platform/clock"
	"mindflow/internal/platform/id"
	"mindflow/internal/platform/logger"
)

// Store owns the learner state. Every mutation runs against a copy, is
// persisted, and only then becomes visible to readers.
type Store struct {
	snapshots contentout.SnapshotStore
	clock     clock.Clock
	idGen     id.Generator
	log       *logger.Logger

	mu      sync.Mutex
	state   domain.State
	subs    map[int]chan struct{}
	nextSub int
}

func NewStore(snapshots contentout.SnapshotStore, clock clock.Clock, idGen id.Generator, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		snapshots: snapshots,
		clock:     clock,
		idGen:     idGen,
		log:       log,
		state:     domain.EmptyState(),
		subs:      map[int]chan struct{}{},
	}
}

// Reload replaces the in-memory state with what storage holds.
func (s *Store) Reload(ctx context.Context) error {
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if dropped := state.Reconcile(); dropped > 0 {
		s.log.Info("dropped dangling folder members", "count", dropped)
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) Snapshot() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Update applies fn to a copy of the state and persists it. A failing fn or
// save leaves the state unchanged.
func (s *Store) Update(ctx context.Context, fn func(*domain.State) error) error {
	s.mu.Lock()
	next := s.state.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.snapshots.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.log.Error("persist state", "error", err)
		return err
	}
	s.state = next
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) NewID() string {
	return s.idGen.New()
}

func (s *Store) NowMillis() int64 {
	return s.clock.Now().UnixMilli()
}

func (s *Store) Today() string {
	return clock.Today(s.clock)
}

func (s *Store) Clock() clock.Clock {
	return s.clock
}

// Subscribe returns a channel that receives a signal after every change.
// Signals coalesce; readers should take a new snapshot.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
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

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
