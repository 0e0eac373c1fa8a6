package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// Provider is one named entry of a fallback chain.
type Provider struct {
	Name   string
	Client LLMClient
}

// FallbackLLMClient tries providers in order. A provider that fails is
// benched for the cooldown and skipped while a healthy one remains.
type FallbackLLMClient struct {
	providers []Provider
	cooldown  time.Duration
	now       func() time.Time
	logger    *logging.Logger

	mu      sync.Mutex
	benched map[string]time.Time
}

func NewFallbackLLMClient(logger *logging.Logger, cooldown time.Duration, providers ...Provider) *FallbackLLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	chain := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.Client != nil {
			chain = append(chain, p)
		}
	}
	return &FallbackLLMClient{
		providers: chain,
		cooldown:  cooldown,
		now:       time.Now,
		logger:    logger,
		benched:   make(map[string]time.Time),
	}
}

func (c *FallbackLLMClient) candidates() []Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	var healthy []Provider
	for _, p := range c.providers {
		if until, ok := c.benched[p.Name]; ok && now.Before(until) {
			continue
		}
		healthy = append(healthy, p)
	}
	if len(healthy) == 0 {
		return c.providers
	}
	return healthy
}

func (c *FallbackLLMClient) mark(name string, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if failed && c.cooldown > 0 {
		c.benched[name] = c.now().Add(c.cooldown)
		return
	}
	delete(c.benched, name)
}

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	var errs []error
	for i, p := range c.candidates() {
		if i > 0 && ctx.Err() != nil {
			break
		}
		resp, err := p.Client.Complete(ctx, req)
		if err == nil {
			c.mark(p.Name, false)
			if i > 0 {
				c.logger.Info("llm fallback answered", "provider", p.Name)
			}
			return resp, nil
		}
		c.mark(p.Name, true)
		c.logger.Warn("llm provider failed", "provider", p.Name, "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return LLMResponse{}, serviceError("fallback", errors.New("no providers configured"))
	}
	return LLMResponse{}, errors.Join(errs...)
}
