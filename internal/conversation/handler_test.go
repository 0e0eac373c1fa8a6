package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerChat(t *testing.T) {
	h := newHarness(t)
	handler := NewHandler(h.service, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"book","conversation_id":"c1"}`))
	rec := httptest.NewRecorder()
	handler.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "c1", resp.ConversationID)
	assert.Contains(t, resp.Response, "your name")
}

func TestHandlerChatBadRequests(t *testing.T) {
	h := newHarness(t)
	handler := NewHandler(h.service, nil)

	for _, body := range []string{`{not json`, `{"message":""}`} {
		rec := httptest.NewRecorder()
		handler.Chat(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandlerHistory(t *testing.T) {
	h := newHarness(t)
	h.send(t, "c1", "book")
	handler := NewHandler(h.service, nil)

	get := func(id string) *httptest.ResponseRecorder {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("conversationID", id)
		req := httptest.NewRequest(http.MethodGet, "/chat/"+id+"/history", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()
		handler.History(rec, req)
		return rec
	}

	rec := get("c1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "collecting-name", resp.Stage)
	assert.Len(t, resp.Messages, 2)

	assert.Equal(t, http.StatusNotFound, get("missing").Code)
}
