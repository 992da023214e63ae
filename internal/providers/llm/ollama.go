package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/tuskmem/internal/core"
)

// Ollama does not report context sizes in /api/tags.
const ollamaContextLength = 32768

type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, apiKey, model, embeddingModel string) *Ollama {
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:        baseURL,
			APIKey:         apiKey,
			Model:          model,
			AuthHeader:     "Authorization",
			AuthPrefix:     "Bearer ",
			ModelsPath:     "/api/tags",
			EmbeddingModel: embeddingModel,
		}),
	}
}

func (o *Ollama) Models(ctx context.Context) ([]core.Model, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := o.fetch(ctx, o.modelsPath, &result); err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}

	models := make([]core.Model, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, core.Model{
			ID:            m.Name,
			Name:          m.Name,
			ContextLength: ollamaContextLength,
		})
	}
	return models, nil
}
