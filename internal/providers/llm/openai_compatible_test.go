package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
}

func TestOpenAI_Chat(t *testing.T) {
	var got struct {
		Model    string           `json:"model"`
		Messages []map[string]any `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(srv.URL, "sk-test", "gpt-4", "")
	msg, err := p.Chat(context.Background(), []core.Message{
		{Role: core.RoleSystem, Content: "be kind", Timestamp: time.Now()},
		{Role: core.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, core.RoleAssistant, msg.Role)
	assert.Equal(t, "hello there", msg.Content)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Equal(t, "gpt-4", got.Model)
	require.Len(t, got.Messages, 2)
	assert.NotContains(t, got.Messages[0], "timestamp")
}

func TestOpenAI_ChatRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(srv.URL, "sk-test", "gpt-4", "")
	p.retrier = fastRetrier()

	msg, err := p.Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAI_ChatDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	p := NewOpenAI(srv.URL, "sk-bad", "gpt-4", "")
	p.retrier = fastRetrier()

	_, err := p.Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAI_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-ada-002", req.Model)
		assert.Equal(t, []string{"a", "b"}, req.Input)
		// Out of order on purpose.
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(srv.URL, "sk-test", "gpt-4", "text-embedding-ada-002")
	vecs, err := p.Embed(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)

	empty, err := p.Embed(context.Background())
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestAzure_Paths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("api-key"))
		assert.Equal(t, "2023-05-15", r.URL.Query().Get("api-version"))
		switch r.URL.Path {
		case "/openai/deployments/chat-dep/chat/completions":
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"azure"}}]}`))
		case "/openai/deployments/embed-dep/embeddings":
			_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewAzure(srv.URL+"/", "key-1", "2023-05-15", "chat-dep", "embed-dep", "gpt-4")

	msg, err := p.Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "azure", msg.Content)

	vecs, err := p.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5}}, vecs)

	models, err := p.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "chat-dep", models[0].ID)
}

func TestAnthropic_ChatMergesRoles(t *testing.T) {
	var got struct {
		System   string        `json:"system"`
		Messages []chatMessage `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"merged"}]}`))
	}))
	defer srv.Close()

	p := NewAnthropic("key", "claude")
	p.baseURL = srv.URL

	msg, err := p.Chat(context.Background(), []core.Message{
		{Role: core.RoleSystem, Content: "persona"},
		{Role: core.RoleUser, Content: "one"},
		{Role: core.RoleUser, Content: "two"},
		{Role: core.RoleAssistant, Content: "three"},
	})
	require.NoError(t, err)
	assert.Equal(t, "merged", msg.Content)
	assert.Equal(t, "persona", got.System)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "one\n\ntwo", got.Messages[0].Content)
}

func TestCustomOpenAI_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-local", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"local-7b","context_length":4096},{"id":"other","name":"Other"}]}`))
	}))
	defer srv.Close()

	models, err := NewCustomOpenAI(srv.URL, "sk-local", "local-7b", "").Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, core.Model{ID: "local-7b", Name: "local-7b", ContextLength: 4096}, models[0])
	assert.Equal(t, "Other", models[1].Name)
}

func TestOllama_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:8b"}]}`))
	}))
	defer srv.Close()

	models, err := NewOllama(srv.URL, "", "llama3:8b", "").Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{{ID: "llama3:8b", Name: "llama3:8b", ContextLength: ollamaContextLength}}, models)
}

func TestModels_FailsFastOnError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "sk", "gpt-4", "").Models(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 503")
	assert.Equal(t, int32(1), calls.Load())
}
