package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

func TestCompleteSendsRequestAndParsesUsage(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "  A short summary.\n"}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150}
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL+"/v1/", "sk-test", "gpt-3.5-turbo", 5*time.Second, utils.NewNopLogger())
	completion, err := client.Complete(context.Background(), Request{
		Messages:  []Message{{Role: "user", Content: "Summarize"}},
		MaxTokens: 200,
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 200, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Summarize", got.Messages[0].Content)

	assert.Equal(t, "A short summary.", completion.Content)
	require.NotNil(t, completion.Usage)
	assert.Equal(t, 120, completion.Usage.PromptTokens)
	assert.Equal(t, 30, completion.Usage.CompletionTokens)
}

func TestCompleteWithoutUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "Science"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "k", "m", time.Second, utils.NewNopLogger())
	completion, err := client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Nil(t, completion.Usage)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error object", http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "auth"}}`, "bad key"},
		{"non-json failure", http.StatusBadGateway, `<html>gateway</html>`, "status 502"},
		{"no choices", http.StatusOK, `{"choices": []}`, "no choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewOpenAIClient(srv.URL, "k", "m", time.Second, utils.NewNopLogger())
			_, err := client.Complete(context.Background(), Request{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
