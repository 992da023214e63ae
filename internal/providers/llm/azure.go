package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sandevgo/tuskmem/internal/core"
)

// Azure talks to an Azure OpenAI deployment. The model is fixed by the
// deployment, so model switches only change what is reported.
type Azure struct {
	*OpenAICompatible
	deployment string
}

func NewAzure(endpoint, apiKey, version, deployment, embeddingDeployment, model string) *Azure {
	q := "?api-version=" + url.QueryEscape(version)
	if embeddingDeployment == "" {
		embeddingDeployment = deployment
	}
	return &Azure{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:       strings.TrimRight(endpoint, "/"),
			APIKey:        apiKey,
			Model:         model,
			AuthHeader:    "api-key",
			ChatPath:      fmt.Sprintf("/openai/deployments/%s/chat/completions%s", url.PathEscape(deployment), q),
			EmbeddingPath: fmt.Sprintf("/openai/deployments/%s/embeddings%s", url.PathEscape(embeddingDeployment), q),
		}),
		deployment: deployment,
	}
}

func (a *Azure) Models(ctx context.Context) ([]core.Model, error) {
	return []core.Model{{ID: a.deployment, Name: a.deployment}}, nil
}
