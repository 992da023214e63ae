package llm

const openAIBaseURL = "https://api.openai.com"

type OpenAI struct {
	*OpenAICompatible
}

// NewOpenAI talks to api.openai.com unless baseURL points elsewhere.
func NewOpenAI(baseURL, apiKey, model, embeddingModel string) *OpenAI {
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	return &OpenAI{
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
