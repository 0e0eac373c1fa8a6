package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// keyedMutex hands out one lock per key and forgets it once no goroutine
// holds or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sem  chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free or ctx is done. The returned func unlocks.
func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{sem: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-l.sem
				k.release(key, l)
			})
		}, nil
	case <-ctx.Done():
		k.release(key, l)
		return nil, ctx.Err()
	}
}

func (k *keyedMutex) release(key string, l *keyedLock) {
	k.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// ErrSessionSave marks a turn that ran but whose state could not be stored.
var ErrSessionSave = errors.New("conversation: save session")

// Sessions serializes every turn of a conversation id around a SessionStore.
// States handed to Hold are served ahead of the store until a save succeeds.
type Sessions struct {
	store SessionStore
	locks *keyedMutex
	now   func() time.Time

	mu      sync.Mutex
	pending map[string]*State
}

func NewSessions(store SessionStore) *Sessions {
	if store == nil {
		panic("conversation: session store cannot be nil")
	}
	return &Sessions{
		store:   store,
		locks:   newKeyedMutex(),
		now:     time.Now,
		pending: make(map[string]*State),
	}
}

// Hold keeps state in memory after a failed save. The next turn for the
// same id starts from it and retries the save.
func (s *Sessions) Hold(state *State) {
	s.mu.Lock()
	s.pending[state.ID] = state.clone()
	s.mu.Unlock()
}

func (s *Sessions) held(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.pending[id]
	if !ok {
		return nil, false
	}
	return state.clone(), true
}

func (s *Sessions) release(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *Sessions) load(ctx context.Context, id string) (*State, error) {
	if state, ok := s.held(id); ok {
		return state, nil
	}
	return s.store.Load(ctx, id)
}

// WithSession locks id, loads its state (creating an empty one for unseen
// ids), runs fn and saves the result. When fn fails nothing is saved. A
// failed save is reported wrapped in ErrSessionSave.
func (s *Sessions) WithSession(ctx context.Context, id string, fn func(state *State, created bool) error) error {
	ctx, span := tracer.Start(ctx, "conversation.with_session")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.id", id))

	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return fmt.Errorf("conversation: lock session: %w", err)
	}
	defer unlock()

	state, err := s.load(ctx, id)
	created := false
	switch {
	case errors.Is(err, ErrSessionNotFound):
		state = newState(id, s.now().UTC())
		created = true
	case err != nil:
		span.RecordError(err)
		return err
	}

	if err := fn(state, created); err != nil {
		return err
	}

	state.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, state); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrSessionSave, err)
	}
	s.release(id)
	return nil
}

// Get loads a session without locking it.
func (s *Sessions) Get(ctx context.Context, id string) (*State, error) {
	return s.load(ctx, id)
}
