package main

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

func apiEvent(method, path, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		Body:    body,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:   method,
				Path:     path,
				SourceIP: "198.51.100.7",
			},
		},
	}
}

func testProxy(t *testing.T, baseURL string) *proxy {
	t.Helper()
	p, err := newProxy(baseURL, time.Second, logging.New("error"))
	require.NoError(t, err)
	return p
}

func TestNewProxyValidatesBaseURL(t *testing.T) {
	_, err := newProxy("", time.Second, nil)
	assert.Error(t, err)
	_, err = newProxy("not a url", time.Second, nil)
	assert.Error(t, err)

	p, err := newProxy("https://api.example.com/", time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", p.upstream.String())
}

func TestRouteKey(t *testing.T) {
	assert.Equal(t, "/chat//history", routeKey("/chat/abc-123/history"))
	assert.Equal(t, "/chat", routeKey("/chat"))
	assert.Equal(t, "/chat/abc/transcript", routeKey("/chat/abc/transcript"))
}

func TestHandleLocalResponses(t *testing.T) {
	p := testProxy(t, "http://example.invalid")
	ctx := context.Background()

	cases := []struct {
		name   string
		evt    events.APIGatewayV2HTTPRequest
		status int
	}{
		{"health", apiEvent(http.MethodGet, "/health", ""), http.StatusOK},
		{"unknown path", apiEvent(http.MethodPost, "/webhooks/voice", ""), http.StatusNotFound},
		{"empty conversation id", apiEvent(http.MethodGet, "/chat//history", ""), http.StatusNotFound},
		{"wrong method", apiEvent(http.MethodGet, "/chat", ""), http.StatusMethodNotAllowed},
		{"delete appointments", apiEvent(http.MethodDelete, "/appointments", ""), http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := p.handle(ctx, tc.evt)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	evt := apiEvent(http.MethodPost, "/chat", "not-base64!")
	evt.IsBase64Encoded = true
	resp, err := p.handle(ctx, evt)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"invalid body"}`, resp.Body)
}

func TestHandleForwardsChat(t *testing.T) {
	type captured struct {
		method, path, query, body string
		headers                   http.Header
	}
	reqCh := make(chan captured, 1)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqCh <- captured{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(body), headers: r.Header.Clone()}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-ID", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"response":"hi","conversation_id":"c1"}`))
	}))
	defer upstream.Close()

	evt := apiEvent(http.MethodPost, "/chat", base64.StdEncoding.EncodeToString([]byte(`{"message":"hello"}`)))
	evt.IsBase64Encoded = true
	evt.RawQueryString = "src=widget"
	evt.Headers = map[string]string{"content-type": "application/json", "x-request-id": "req-1"}

	resp, err := testProxy(t, upstream.URL).handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"response":"hi","conversation_id":"c1"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Equal(t, "req-1", resp.Headers["x-request-id"])

	select {
	case got := <-reqCh:
		assert.Equal(t, http.MethodPost, got.method)
		assert.Equal(t, "/chat", got.path)
		assert.Equal(t, "src=widget", got.query)
		assert.Equal(t, `{"message":"hello"}`, got.body)
		assert.Equal(t, "application/json", got.headers.Get("Content-Type"))
		assert.Equal(t, "198.51.100.7", got.headers.Get("X-Real-Ip"))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for upstream request")
	}
}

func TestHandleForwardsHistoryAndStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/abc/history", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	resp, err := testProxy(t, upstream.URL).handle(context.Background(), apiEvent(http.MethodGet, "/chat/abc/history", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	resp, err := testProxy(t, url).handle(context.Background(), apiEvent(http.MethodGet, "/tattoo-types", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestLookupHeader(t *testing.T) {
	headers := map[string]string{"x-request-id": " abc "}
	assert.Equal(t, "abc", lookupHeader(headers, "X-Request-ID"))
	assert.Empty(t, lookupHeader(headers, "Content-Type"))
}
