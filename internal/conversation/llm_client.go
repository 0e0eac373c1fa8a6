package conversation

import (
	"context"
	"errors"
	"fmt"
)

// Message roles shared by the transcript and the providers.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn handed to a provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMRequest is a provider-neutral completion call. Zero or nil tuning fields
// keep the provider default.
type LLMRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature *float32
}

// LLMResponse carries the reply text and, when the provider reports it,
// token accounting.
type LLMResponse struct {
	Text         string
	StopReason   string
	InputTokens  int32
	OutputTokens int32
}

// LLMClient is the text generation capability behind the assistant.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// ErrServiceUnavailable marks failures of the text generation service.
var ErrServiceUnavailable = errors.New("conversation: text generation unavailable")

// ServiceError is matched with errors.Is(err, ErrServiceUnavailable) whatever
// the provider.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("conversation: %s completion failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() []error {
	return []error{ErrServiceUnavailable, e.Err}
}

func serviceError(provider string, err error) error {
	return &ServiceError{Provider: provider, Err: err}
}

func unsupportedRole(role string) error {
	return fmt.Errorf("conversation: unsupported role %q", role)
}
