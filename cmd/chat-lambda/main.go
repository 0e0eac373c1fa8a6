package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// maxResponseBytes bounds what is buffered into the Lambda response.
const maxResponseBytes = 5 << 20

// forwardedHeaders are copied from the API Gateway event to the upstream
// request and back.
var forwardedHeaders = []string{"Content-Type", "X-Request-ID"}

type proxy struct {
	upstream *url.URL
	client   *http.Client
	logger   *logging.Logger
}

func newProxy(baseURL string, timeout time.Duration, logger *logging.Logger) (*proxy, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("UPSTREAM_BASE_URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid UPSTREAM_BASE_URL %q", baseURL)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &proxy{upstream: u, client: &http.Client{Timeout: timeout}, logger: logger}, nil
}

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	// a chat turn may wait on the LLM
	timeout := 35 * time.Second
	if raw := strings.TrimSpace(os.Getenv("UPSTREAM_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			logger.Error("invalid UPSTREAM_TIMEOUT", "error", err)
			os.Exit(1)
		}
		timeout = parsed
	}

	p, err := newProxy(os.Getenv("UPSTREAM_BASE_URL"), timeout, logger)
	if err != nil {
		logger.Error("chat-lambda misconfigured", "error", err)
		os.Exit(1)
	}
	lambda.Start(p.handle)
}

// allowedMethods lists the public API. "" in the key stands for the
// conversation id segment.
var allowedMethods = map[string][]string{
	"/chat":           {http.MethodPost},
	"/chat//history":  {http.MethodGet},
	"/appointments":   {http.MethodGet, http.MethodPost},
	"/tattoo-types":   {http.MethodGet},
	"/random-tattoos": {http.MethodGet},
}

// routeKey blanks the conversation id so history paths share one key.
func routeKey(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) == 4 && parts[1] == "chat" && parts[2] != "" && parts[3] == "history" {
		parts[2] = ""
	}
	return strings.Join(parts, "/")
}

func methodAllowed(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func jsonResponse(status int, message string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       fmt.Sprintf(`{"message":%q}`, message),
	}
}

func (p *proxy) handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(evt.RequestContext.HTTP.Method)
	path := evt.RawPath
	if path == "" {
		path = evt.RequestContext.HTTP.Path
	}

	if path == "/health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}

	methods, known := allowedMethods[routeKey(path)]
	switch {
	case !known || strings.Contains(path, "//"):
		return jsonResponse(http.StatusNotFound, "not found"), nil
	case !methodAllowed(methods, method):
		return jsonResponse(http.StatusMethodNotAllowed, "method not allowed"), nil
	}

	body := []byte(evt.Body)
	if evt.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(evt.Body)
		if err != nil {
			return jsonResponse(http.StatusBadRequest, "invalid body"), nil
		}
		body = decoded
	}

	target := *p.upstream
	target.Path = p.upstream.Path + path
	target.RawQuery = evt.RawQueryString

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return jsonResponse(http.StatusInternalServerError, "An error occurred: "+err.Error()), nil
	}
	for _, name := range forwardedHeaders {
		if v := lookupHeader(evt.Headers, name); v != "" {
			req.Header.Set(name, v)
		}
	}
	if ip := evt.RequestContext.HTTP.SourceIP; ip != "" {
		req.Header.Set("X-Real-Ip", ip)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("upstream request failed", "path", path, "error", err)
		return jsonResponse(http.StatusBadGateway, "An error occurred: upstream unavailable"), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return jsonResponse(http.StatusBadGateway, "An error occurred: upstream read failed"), nil
	}

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{},
		Body:       string(respBody),
	}
	for _, name := range forwardedHeaders {
		if v := resp.Header.Get(name); v != "" {
			out.Headers[strings.ToLower(name)] = v
		}
	}
	return out, nil
}

// lookupHeader is case-insensitive; API Gateway lower-cases most headers.
func lookupHeader(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
