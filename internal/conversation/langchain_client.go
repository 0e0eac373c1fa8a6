package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainLLMClient implements LLMClient on top of any langchaingo model.
// It backs the OpenAI and Ollama providers.
type LangChainLLMClient struct {
	model    llms.Model
	provider string
}

// NewLangChainLLMClient wraps an existing langchaingo model.
func NewLangChainLLMClient(model llms.Model, provider string) *LangChainLLMClient {
	if model == nil {
		panic("conversation: langchain model cannot be nil")
	}
	return &LangChainLLMClient{model: model, provider: provider}
}

// NewOpenAILLMClient builds the OpenAI provider.
func NewOpenAILLMClient(apiKey, model string) (*LangChainLLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: openai api key is required")
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("conversation: create openai model: %w", err)
	}
	return NewLangChainLLMClient(llm, "openai"), nil
}

// NewOllamaLLMClient builds a client for a local Ollama server.
func NewOllamaLLMClient(host, model string) (*LangChainLLMClient, error) {
	llm, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(host))
	if err != nil {
		return nil, fmt.Errorf("conversation: create ollama model: %w", err)
	}
	return NewLangChainLLMClient(llm, "ollama"), nil
}

func (c *LangChainLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	messages := make([]llms.MessageContent, 0, len(req.Messages)+1)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	for _, msg := range req.Messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case ChatRoleUser:
			role = llms.ChatMessageTypeHuman
		case ChatRoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			return LLMResponse{}, unsupportedRole(msg.Role)
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}

	var opts []llms.CallOption
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(int(req.MaxTokens)))
	}
	if req.Temperature != nil {
		opts = append(opts, llms.WithTemperature(float64(*req.Temperature)))
	}

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return LLMResponse{}, serviceError(c.provider, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return LLMResponse{}, serviceError(c.provider, errors.New("no response choices"))
	}

	choice := resp.Choices[0]
	return LLMResponse{
		Text:       strings.TrimSpace(choice.Content),
		StopReason: choice.StopReason,
	}, nil
}
