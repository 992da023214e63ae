package config

import (
	"fmt"
	"strings"
	"sync"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAzure      = "azure"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
	ProviderAnthropic  = "anthropic"
)

type BackendConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	UseAzure bool   `env:"USE_AZURE_OPENAI" envDefault:"false"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`

	AzureKey                 string `env:"AZURE_OPENAI_KEY"`
	AzureEndpoint            string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureVersion             string `env:"AZURE_OPENAI_VERSION"`
	AzureDeployment          string `env:"AZURE_OPENAI_DEPLOYMENT"`
	AzureEmbeddingDeployment string `env:"AZURE_OPENAI_EMBEDDING_DEPLOYMENT"`

	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	EmbeddingModel string `env:"TUSK_EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`

	// Model is owned by the session and may change at runtime.
	Model string
	mu    sync.RWMutex
}

// Selected returns the backend in effect; the Azure switch overrides LLM_PROVIDER.
func (c *BackendConfig) Selected() string {
	if c.UseAzure {
		return ProviderAzure
	}
	return c.Provider
}

// Validate reports missing credentials for the selected backend and settings
// that only make sense for a backend that is not selected.
func (c *BackendConfig) Validate() error {
	selected := c.Selected()

	if selected != ProviderAzure && c.AzureDeployment != "" {
		return fmt.Errorf("%w: AZURE_OPENAI_DEPLOYMENT is set but Azure is not selected", ErrContradictoryConfig)
	}

	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	switch selected {
	case ProviderAzure:
		require("AZURE_OPENAI_KEY", c.AzureKey)
		require("AZURE_OPENAI_ENDPOINT", c.AzureEndpoint)
		require("AZURE_OPENAI_VERSION", c.AzureVersion)
		require("AZURE_OPENAI_DEPLOYMENT", c.AzureDeployment)
	case ProviderOpenAI:
		require("OPENAI_API_KEY", c.OpenAIAPIKey)
	case ProviderAnthropic:
		require("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	case ProviderOpenRouter:
		require("OPENROUTER_API_KEY", c.OpenRouterAPIKey)
	case ProviderCustom:
		require("CUSTOM_OPENAI_BASE_URL", c.CustomOpenAIBaseURL)
	case ProviderOllama:
		require("OLLAMA_BASE_URL", c.OllamaBaseURL)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, selected)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w for %s: %s", ErrMissingCredentials, selected, strings.Join(missing, ", "))
	}
	return nil
}

func (c *BackendConfig) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Model
}

func (c *BackendConfig) SetModel(model string) error {
	if strings.TrimSpace(model) == "" {
		return fmt.Errorf("model name is empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Model = model
	return nil
}
