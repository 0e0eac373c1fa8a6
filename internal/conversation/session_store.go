package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSessionNotFound is returned by a SessionStore for unknown or expired ids.
var ErrSessionNotFound = errors.New("conversation: session not found")

// SessionStore persists conversation state. Implementations need not be
// safe for concurrent read-modify-write of one id; Sessions provides that.
type SessionStore interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, state *State) error
}

// MemorySessionStore keeps sessions in process memory and evicts those idle
// for longer than the TTL.
type MemorySessionStore struct {
	mu       sync.Mutex
	items    map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemorySessionStore creates a store. When sweepEvery is positive a
// background goroutine removes expired sessions until Close is called.
func NewMemorySessionStore(ttl, sweepEvery time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &MemorySessionStore{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if sweepEvery > 0 {
		go s.sweepLoop(sweepEvery)
	}
	return s
}

const defaultSessionTTL = 24 * time.Hour

// Load returns a copy of the stored state.
func (s *MemorySessionStore) Load(_ context.Context, id string) (*State, error) {
	s.mu.Lock()
	entry, ok := s.items[id]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var state State
	if err := json.Unmarshal(entry.data, &state); err != nil {
		return nil, fmt.Errorf("conversation: decode session: %w", err)
	}
	return &state, nil
}

// Save stores a snapshot of state and refreshes its TTL.
func (s *MemorySessionStore) Save(_ context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("conversation: encode session: %w", err)
	}
	s.mu.Lock()
	s.items[state.ID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored sessions, expired ones included until swept.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *MemorySessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.items {
		if !now.Before(entry.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *MemorySessionStore) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close stops the background sweeper.
func (s *MemorySessionStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
