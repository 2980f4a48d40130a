package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-gateway-be/pkg/llm"
	"ai-gateway-be/pkg/llm/mock"
	"ai-gateway-be/pkg/llm/ollama"
)

func TestNewLLMProviderMock(t *testing.T) {
	provider, err := NewLLMProvider("mock", "llama3", "")

	require.NoError(t, err)
	assert.IsType(t, &mock.MockProvider{}, provider)
}

func TestNewLLMProviderOllama(t *testing.T) {
	provider, err := NewLLMProvider("ollama", "llama3", "http://ollama:11434")

	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, provider)
}

func TestNewLLMProviderUnsupported(t *testing.T) {
	provider, err := NewLLMProvider("openai", "gpt", "")

	assert.Error(t, err)
	assert.Nil(t, provider)
}

func TestProvidersImplementReadyChecker(t *testing.T) {
	for _, name := range []string{"mock", "ollama"} {
		provider, err := NewLLMProvider(name, "llama3", "")
		require.NoError(t, err)
		_, ok := provider.(llm.ReadyChecker)
		assert.True(t, ok, "%s should expose readiness", name)
	}
}
