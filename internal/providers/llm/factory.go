package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/log"
)

// Provider is what every backend offers the session.
type Provider interface {
	core.ChatProvider
	core.ModelLister
}

// NewProvider creates the chat backend selected by configuration.
func NewProvider(ctx context.Context, cfg *config.BackendConfig) (Provider, error) {
	selected := cfg.Selected()
	model := cfg.GetModel()

	log.FromCtx(ctx).Info().
		Str("provider", selected).
		Str("model", model).
		Msg("starting llm provider")

	switch selected {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, model, cfg.EmbeddingModel), nil
	case config.ProviderAzure:
		return NewAzure(cfg.AzureEndpoint, cfg.AzureKey, cfg.AzureVersion, cfg.AzureDeployment, cfg.AzureEmbeddingDeployment, model), nil
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.AnthropicAPIKey, model), nil
	case config.ProviderOpenRouter:
		return NewOpenRouter(cfg.OpenRouterAPIKey, model, cfg.EmbeddingModel), nil
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, model, cfg.EmbeddingModel), nil
	case config.ProviderCustom:
		return NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, model, cfg.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownProvider, selected)
	}
}

// NewEmbedder returns the embedding endpoint of the selected backend.
func NewEmbedder(ctx context.Context, cfg *config.BackendConfig) (core.Embedder, error) {
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e, ok := p.(core.Embedder)
	if !ok {
		return nil, fmt.Errorf("provider %s has no embedding endpoint", cfg.Selected())
	}
	return e, nil
}
