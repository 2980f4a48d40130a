package llm

import (
	"context"
	"errors"
)

// ErrEngineUnavailable is returned when the inference backend is unreachable
// or has no model loaded. Callers must not write caches or history after it.
var ErrEngineUnavailable = errors.New("llm: inference engine unavailable")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// StreamChunk is one fragment of a streamed response. A non-nil Err
// terminates the stream; no further chunks follow it.
type StreamChunk struct {
	Content string
	Err     error
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Chat sends a chat history to the model and returns the full response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// StreamChat sends a chat history and returns a channel of incremental
	// fragments. The channel is closed after the final fragment. Cancelling
	// ctx stops the producer.
	StreamChat(ctx context.Context, history []Message, options ...Option) (<-chan StreamChunk, error)
}

// ReadyChecker is implemented by providers that can report whether a model is
// loaded and reachable, used by the readiness probe.
type ReadyChecker interface {
	Ready(ctx context.Context) bool
}
