package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
)

const (
	defaultChatPath      = "/v1/chat/completions"
	defaultEmbeddingPath = "/v1/embeddings"
	defaultModelsPath    = "/v1/models"

	modelsTimeout = 10 * time.Second
)

type OpenAICompatible struct {
	baseProvider
	authHeader     string
	authPrefix     string
	extraHeaders   map[string]string
	chatPath       string
	embeddingPath  string
	modelsPath     string
	embeddingModel string
}

type OpenAICompatibleConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	AuthHeader     string // e.g., "Authorization"
	AuthPrefix     string // e.g., "Bearer "
	ExtraHeaders   map[string]string
	ChatPath       string
	EmbeddingPath  string
	ModelsPath     string
	EmbeddingModel string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	if cfg.ChatPath == "" {
		cfg.ChatPath = defaultChatPath
	}
	if cfg.EmbeddingPath == "" {
		cfg.EmbeddingPath = defaultEmbeddingPath
	}
	if cfg.ModelsPath == "" {
		cfg.ModelsPath = defaultModelsPath
	}
	return &OpenAICompatible{
		baseProvider:   newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:     cfg.AuthHeader,
		authPrefix:     cfg.AuthPrefix,
		extraHeaders:   cfg.ExtraHeaders,
		chatPath:       cfg.ChatPath,
		embeddingPath:  cfg.EmbeddingPath,
		modelsPath:     cfg.ModelsPath,
		embeddingModel: cfg.EmbeddingModel,
	}
}

func (o *OpenAICompatible) headers() map[string]string {
	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": toWire(history),
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := o.doJSON(ctx, http.MethodPost, o.chatPath, payload, o.headers(), &result); err != nil {
		return core.Message{}, err
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices")
	}

	m := result.Choices[0].Message
	if m.Role == "" {
		m.Role = core.RoleAssistant
	}
	return core.Message{Role: m.Role, Content: m.Content, Timestamp: time.Now()}, nil
}

// Embed returns one vector per input text, in input order.
func (o *OpenAICompatible) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := map[string]any{
		"model": o.embeddingModel,
		"input": texts,
	}

	var result struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := o.doJSON(ctx, http.MethodPost, o.embeddingPath, payload, o.headers(), &result); err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d inputs", len(result.Data), len(texts))
	}

	sort.Slice(result.Data, func(i, j int) bool { return result.Data[i].Index < result.Data[j].Index })
	out := make([][]float32, len(result.Data))
	for i, d := range result.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// Models lists the backend's models from an OpenAI style {"data": [...]} body.
func (o *OpenAICompatible) Models(ctx context.Context) ([]core.Model, error) {
	var result struct {
		Data []core.Model `json:"data"`
	}
	if err := o.fetch(ctx, o.modelsPath, &result); err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	for i := range result.Data {
		if result.Data[i].Name == "" {
			result.Data[i].Name = result.Data[i].ID
		}
	}
	return result.Data, nil
}

// fetch issues a single GET without retries; model listing backs interactive
// prompts where a fast failure beats a long backoff.
func (o *OpenAICompatible) fetch(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, modelsTimeout)
	defer cancel()

	resp, err := o.doRequest(ctx, http.MethodGet, path, nil, o.headers())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
