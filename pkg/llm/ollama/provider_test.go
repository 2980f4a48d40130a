package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-gateway-be/pkg/llm"
)

func TestChatReturnsMessageContent(t *testing.T) {
	var gotReq ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "4"},
			Done:    true,
		})
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")
	response, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "What is 2+2?"}})

	require.NoError(t, err)
	assert.Equal(t, "4", response)
	assert.Equal(t, "llama3", gotReq.Model)
	assert.False(t, gotReq.Stream)
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var gotReq ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ollamaChatResponse{Done: true})
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")
	_, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "hello"},
	})

	require.NoError(t, err)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "assistant", gotReq.Messages[1].Role)
}

func TestChatConnectionRefusedIsEngineUnavailable(t *testing.T) {
	provider := NewOllamaProvider("http://127.0.0.1:1", "llama3")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	assert.ErrorIs(t, err, llm.ErrEngineUnavailable)
}

func TestChatModelNotFoundIsEngineUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "missing-model")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	assert.ErrorIs(t, err, llm.ErrEngineUnavailable)
}

func TestStreamChatDecodesNDJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, token := range []string{"The ", "answer ", "is ", "4."} {
			fmt.Fprintf(w, `{"message":{"role":"assistant","content":"%s"},"done":false}`+"\n", token)
		}
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")
	stream, err := provider.StreamChat(context.Background(), []llm.Message{{Role: "user", Content: "What is 2+2?"}})
	require.NoError(t, err)

	var sb strings.Builder
	for chunk := range stream {
		require.NoError(t, chunk.Err)
		sb.WriteString(chunk.Content)
	}

	assert.Equal(t, "The answer is 4.", sb.String())
}

func TestStreamChatSurfacesDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"par"},"done":false}`)
		fmt.Fprintln(w, `{"mangled`)
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")
	stream, err := provider.StreamChat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	var lastErr error
	for chunk := range stream {
		if chunk.Err != nil {
			lastErr = chunk.Err
		}
	}
	assert.Error(t, lastErr)
}

func TestReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")
	assert.True(t, provider.Ready(context.Background()))

	srv.Close()
	assert.False(t, provider.Ready(context.Background()))
}
