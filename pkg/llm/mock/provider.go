package mock

import (
	"context"
	"fmt"
	"strings"

	"ai-gateway-be/pkg/llm"
)

// MockProvider answers without a real model. Used when the service runs with
// LLM_PROVIDER=mock and by tests that need a controllable engine.
type MockProvider struct {
	// Unavailable makes every call fail with ErrEngineUnavailable.
	Unavailable bool

	// Reply overrides the default canned response when non-nil.
	Reply func(prompt string) string
}

var _ llm.Provider = &MockProvider{}
var _ llm.ReadyChecker = &MockProvider{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) respond(history []llm.Message) (string, error) {
	if m.Unavailable {
		return "", llm.ErrEngineUnavailable
	}

	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	if m.Reply != nil {
		return m.Reply(prompt), nil
	}
	return fmt.Sprintf("[mock] response to: %s", prompt), nil
}

func (m *MockProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	return m.respond(history)
}

func (m *MockProvider) StreamChat(ctx context.Context, history []llm.Message, _ ...llm.Option) (<-chan llm.StreamChunk, error) {
	full, err := m.respond(history)
	if err != nil {
		return nil, err
	}

	out := make(chan llm.StreamChunk, 8)
	go func() {
		defer close(out)
		for _, word := range strings.SplitAfter(full, " ") {
			select {
			case out <- llm.StreamChunk{Content: word}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (m *MockProvider) Ready(_ context.Context) bool {
	return !m.Unavailable
}
