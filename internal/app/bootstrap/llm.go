package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
	"github.com/wolfman30/inkstudio-ai/internal/conversation"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// BuildLLMClient wires the text generation provider named by LLM_PROVIDER,
// optionally backed by LLM_FALLBACK_PROVIDER. It returns nil for "none";
// the assistant then answers every free-form question with an apology.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (conversation.LLMClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	primary, err := buildProvider(ctx, cfg.LLMProvider, cfg, awsCfg)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		logger.Warn("no LLM provider configured; assistant replies will fall back to an apology")
		return nil, nil
	}

	fallbackName := strings.TrimSpace(cfg.LLMFallbackProvider)
	if fallbackName == "" || fallbackName == cfg.LLMProvider {
		logger.Info("using LLM provider", "provider", cfg.LLMProvider)
		return primary, nil
	}
	fallback, err := buildProvider(ctx, fallbackName, cfg, awsCfg)
	if err != nil {
		logger.Warn("fallback LLM provider unavailable", "provider", fallbackName, "error", err)
		return primary, nil
	}
	logger.Info("using LLM provider with fallback", "provider", cfg.LLMProvider, "fallback", fallbackName)
	return conversation.NewFallbackLLMClient(logger, cfg.LLMFallbackCooldown,
		conversation.Provider{Name: cfg.LLMProvider, Client: primary},
		conversation.Provider{Name: fallbackName, Client: fallback},
	), nil
}

func buildProvider(ctx context.Context, name string, cfg *appconfig.Config, awsCfg *aws.Config) (conversation.LLMClient, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "openai":
		return conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "bedrock":
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		if awsCfg == nil {
			return nil, fmt.Errorf("bootstrap: bedrock provider requires aws config")
		}
		return conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(*awsCfg), cfg.BedrockModelID), nil
	case "gemini":
		return conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "ollama":
		return conversation.NewOllamaLLMClient(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("bootstrap: unknown LLM provider %q", name)
	}
}
