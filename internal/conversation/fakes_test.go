package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wolfman30/inkstudio-ai/internal/appointments"
	"github.com/wolfman30/inkstudio-ai/internal/booking"
	"github.com/wolfman30/inkstudio-ai/internal/catalog"
)

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []LLMRequest
}

func (f *fakeLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return LLMResponse{}, f.err
	}
	return LLMResponse{Text: f.reply}, nil
}

func (f *fakeLLM) last() LLMRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

var fixedNow = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

type testHarness struct {
	service *Service
	llm     *fakeLLM
	repo    *appointments.InMemoryRepository
	store   *MemorySessionStore
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	return newHarnessWithStore(t, nil)
}

// newHarnessWithStore lets wrap put a decorator in front of the memory store.
func newHarnessWithStore(t *testing.T, wrap func(SessionStore) SessionStore) *testHarness {
	t.Helper()
	cat := catalog.Default()
	llm := &fakeLLM{reply: "Watercolor pieces start at $250."}
	repo := appointments.NewInMemoryRepository()
	store := NewMemorySessionStore(time.Hour, 0)
	t.Cleanup(func() { store.Close() })

	machine := booking.NewMachine(cat, repo, nil, booking.WithClock(func() time.Time { return fixedNow }))
	responder := NewResponder(llm, cat, ResponderConfig{HistoryWindow: 10, SuggestionCount: 5}, nil, nil)
	var sessions SessionStore = store
	if wrap != nil {
		sessions = wrap(store)
	}
	svc := NewService(NewSessions(sessions), machine, responder, nil)
	return &testHarness{service: svc, llm: llm, repo: repo, store: store}
}

func (h *testHarness) send(t *testing.T, id, message string) *ChatResponse {
	t.Helper()
	resp, err := h.service.Chat(context.Background(), ChatRequest{Message: message, ConversationID: id})
	if err != nil {
		t.Fatalf("chat %q: %v", message, err)
	}
	return resp
}

// flakySaveStore fails the next failSaves calls to Save.
type flakySaveStore struct {
	SessionStore
	mu        sync.Mutex
	failSaves int
	saves     int
}

func (f *flakySaveStore) Save(ctx context.Context, state *State) error {
	f.mu.Lock()
	f.saves++
	if f.failSaves > 0 {
		f.failSaves--
		f.mu.Unlock()
		return errors.New("redis: connection reset")
	}
	f.mu.Unlock()
	return f.SessionStore.Save(ctx, state)
}

func (f *flakySaveStore) failNext(n int) {
	f.mu.Lock()
	f.failSaves = n
	f.mu.Unlock()
}
