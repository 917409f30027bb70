// Package oracle abstracts the external text-generation service the triage
// engine depends on. The engine only ever sees the Generator capability, so
// every caller is testable against a deterministic implementation.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator produces freeform text for a natural-language prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config controls generator construction.
type Config struct {
	Mode    string // auto | openai | mock
	APIKey  string
	Model   string
	BaseURL string
}

// WithTimeout bounds every Generate call so a stalled upstream cannot hang a
// chat turn. A non-positive timeout leaves the generator unbounded.
func WithTimeout(g Generator, timeout time.Duration) Generator {
	if timeout <= 0 {
		return g
	}
	return &timedGenerator{inner: g, timeout: timeout}
}

type timedGenerator struct {
	inner   Generator
	timeout time.Duration
}

func (t *timedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, prompt)
}

// WithErrorHook decorates a generator so failures can be observed without
// the callers knowing about metrics.
func WithErrorHook(g Generator, hook func(error)) Generator {
	return &hookedGenerator{inner: g, hook: hook}
}

type hookedGenerator struct {
	inner Generator
	hook  func(error)
}

func (h *hookedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := h.inner.Generate(ctx, prompt)
	if err != nil && h.hook != nil {
		h.hook(err)
	}
	return out, err
}

// NewGenerator builds a generator for the configured mode. In auto mode the
// OpenAI backend is used when a key is present, otherwise the mock.
func NewGenerator(cfg Config) (Generator, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIGenerator(cfg), nil
		}
		return NewMockGenerator(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("oracle api key is required for openai mode")
		}
		return NewOpenAIGenerator(cfg), nil
	case "mock":
		return NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported oracle mode %q", cfg.Mode)
	}
}
