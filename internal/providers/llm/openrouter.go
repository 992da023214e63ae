package llm

import "github.com/sandevgo/tuskmem/internal/core"

const openRouterBaseURL = "https://openrouter.ai/api"

type OpenRouter struct {
	*OpenAICompatible
}

// NewOpenRouter sends the attribution headers OpenRouter asks clients for.
func NewOpenRouter(apiKey, model, embeddingModel string) *OpenRouter {
	return &OpenRouter{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    openRouterBaseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			ExtraHeaders: map[string]string{
				"HTTP-Referer": core.TuskRepositoryURL,
				"X-Title":      core.TuskName,
			},
			EmbeddingModel: embeddingModel,
		}),
	}
}
