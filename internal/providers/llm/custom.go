package llm

// CustomOpenAI is any server speaking the OpenAI chat and embeddings API.
type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(baseURL, apiKey, model, embeddingModel string) *CustomOpenAI {
	return &CustomOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:        baseURL,
			APIKey:         apiKey,
			Model:          model,
			AuthHeader:     "Authorization",
			AuthPrefix:     "Bearer ",
			EmbeddingModel: embeddingModel,
		}),
	}
}
