package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/id-verify/internal/domain/ai"
)

func sampleRequest() ai.CompletionRequest {
	return ai.CompletionRequest{
		SystemPrompt: "system text",
		UserPrompt:   "user text",
		ImageBase64:  "aGVsbG8=",
		MIMEType:     "image/jpeg",
		MaxTokens:    1800,
	}
}

func TestClient_Complete(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": `{"verdict": "FAKE ID CARD"}`},
			}},
		})
	}))
	defer server.Close()

	c := NewClientWithBaseURL("sk-test", "", server.URL+"/v1")
	got, err := c.Complete(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"verdict": "FAKE ID CARD"}`, got)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, 1800, body["max_tokens"])
	temp, ok := body["temperature"].(float64)
	require.True(t, ok, "temperature must be sent explicitly")
	assert.Less(t, temp, 1e-6)

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	system := msgs[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "system text", system["content"])

	parts := msgs[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "user text", parts[0].(map[string]any)["text"])
	image := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", image["url"])
}

func TestClient_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "You exceeded your current quota", "type": "insufficient_quota", "code": "insufficient_quota"}}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL("sk-test", "gpt-4o-mini", server.URL+"/v1")
	_, err := c.Complete(context.Background(), sampleRequest())
	require.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "server error", "type": "server_error"}}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL("sk-test", "gpt-4o-mini", server.URL+"/v1")
	_, err := c.Complete(context.Background(), sampleRequest())
	require.ErrorIs(t, err, ai.ErrUpstream)
	require.NotErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestClient_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL("sk-test", "gpt-4o-mini", server.URL+"/v1")
	_, err := c.Complete(context.Background(), sampleRequest())
	require.ErrorIs(t, err, ai.ErrEmptyResponse)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-2025-04-16"))
	assert.True(t, isReasoningModel("gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
}
