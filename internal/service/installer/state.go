package installer

import (
	"strconv"

	"github.com/sandevgo/tuskmem/internal/config"
)

const (
	envProvider  = "LLM_PROVIDER"
	envUseAzure  = "USE_AZURE_OPENAI"
	envModel     = "TUSK_MODEL"
	envTransport = "TUSK_TRANSPORT"
	envTgToken   = "TELEGRAM_TOKEN"
	envTgOwner   = "TELEGRAM_OWNER_ID"
	envDebug     = "TUSK_DEBUG"
)

type InstallState struct {
	RuntimePath string
	EnvVars     map[string]string
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{
		RuntimePath: runtimePath,
		EnvVars:     make(map[string]string),
	}
}

func (s *InstallState) Provider() string {
	return s.EnvVars[envProvider]
}

// Backend builds the backend configuration collected so far, for steps that
// need to talk to the provider before the .env file exists.
func (s *InstallState) Backend() *config.BackendConfig {
	v := s.EnvVars
	useAzure, _ := strconv.ParseBool(v[envUseAzure])

	c := &config.BackendConfig{
		Provider:                 v[envProvider],
		UseAzure:                 useAzure,
		OpenAIAPIKey:             v["OPENAI_API_KEY"],
		OpenAIBaseURL:            "https://api.openai.com",
		AzureKey:                 v["AZURE_OPENAI_KEY"],
		AzureEndpoint:            v["AZURE_OPENAI_ENDPOINT"],
		AzureVersion:             v["AZURE_OPENAI_VERSION"],
		AzureDeployment:          v["AZURE_OPENAI_DEPLOYMENT"],
		AzureEmbeddingDeployment: v["AZURE_OPENAI_EMBEDDING_DEPLOYMENT"],
		AnthropicAPIKey:          v["ANTHROPIC_API_KEY"],
		OpenRouterAPIKey:         v["OPENROUTER_API_KEY"],
		OllamaBaseURL:            v["OLLAMA_BASE_URL"],
		OllamaAPIKey:             v["OLLAMA_API_KEY"],
		CustomOpenAIBaseURL:      v["CUSTOM_OPENAI_BASE_URL"],
		CustomOpenAIAPIKey:       v["CUSTOM_OPENAI_API_KEY"],
	}
	c.Model = config.DefaultModel
	return c
}
