package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-gateway-be/internal/apperr"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/pkg/convmem"
	"ai-gateway-be/pkg/knowledge"
	"ai-gateway-be/pkg/llm"
	"ai-gateway-be/pkg/semcache"
)

const defaultSessionId = "default"

// IChatService drives one chat turn: cache lookup, retrieval augmentation,
// history load, inference, then the post-inference writes.
type IChatService interface {
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)

	// StreamChat emits incremental fragments through emit in token order.
	// Memory and cache writes happen strictly after the final fragment.
	StreamChat(ctx context.Context, req *dto.SendChatRequest, emit func(dto.StreamEvent) error) error
}

type ChatFlags struct {
	CacheEnabled  bool
	RagEnabled    bool
	MemoryEnabled bool
}

type chatService struct {
	cache       *semcache.Cache
	retriever   *knowledge.Retriever
	memory      *convmem.Memory
	llmProvider llm.Provider
	flags       ChatFlags
	log         logger.ILogger
}

func NewChatService(
	cache *semcache.Cache,
	retriever *knowledge.Retriever,
	memory *convmem.Memory,
	llmProvider llm.Provider,
	flags ChatFlags,
	log logger.ILogger,
) IChatService {
	return &chatService{
		cache:       cache,
		retriever:   retriever,
		memory:      memory,
		llmProvider: llmProvider,
		flags:       flags,
		log:         log,
	}
}

// prepared is the shared front half of a chat turn, up to the inference call.
type prepared struct {
	prompt      string
	sessionId   string
	finalPrompt string
	ragContext  string
	hasContext  bool
	messages    []llm.Message
}

func (cs *chatService) prepare(ctx context.Context, req *dto.SendChatRequest) (*prepared, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperr.EmptyPrompt()
	}

	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = defaultSessionId
	}

	p := &prepared{
		prompt:      prompt,
		sessionId:   sessionId,
		finalPrompt: prompt,
	}

	if cs.flags.RagEnabled {
		if ragContext, ok := cs.retriever.Retrieve(ctx, prompt); ok {
			p.ragContext = ragContext
			p.hasContext = true
			p.finalPrompt = fmt.Sprintf("Context: %s\n\nQuestion: %s", ragContext, prompt)
		}
	}

	if cs.flags.MemoryEnabled {
		history, err := cs.memory.History(ctx, sessionId)
		if err != nil {
			// Missing history degrades the conversation, not the request.
			cs.log.Warn("chat", "Failed to load session history", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
		for _, turn := range history {
			p.messages = append(p.messages, llm.Message{Role: turn.Role, Content: turn.Content})
		}
	}
	p.messages = append(p.messages, llm.Message{Role: "user", Content: p.finalPrompt})

	return p, nil
}

// commit records the completed exchange. History keeps the original prompt,
// not the augmented one, and the cache is keyed by the original prompt too.
func (cs *chatService) commit(ctx context.Context, p *prepared, response string) {
	if cs.flags.MemoryEnabled {
		if err := cs.memory.Append(ctx, p.sessionId, "user", p.prompt); err != nil {
			cs.log.Warn("chat", "Failed to append user turn", map[string]interface{}{
				"session_id": p.sessionId,
				"error":      err.Error(),
			})
		}
		if err := cs.memory.Append(ctx, p.sessionId, "assistant", response); err != nil {
			cs.log.Warn("chat", "Failed to append assistant turn", map[string]interface{}{
				"session_id": p.sessionId,
				"error":      err.Error(),
			})
		}
	}

	if cs.flags.CacheEnabled {
		if err := cs.cache.Store(ctx, p.prompt, response); err != nil {
			cs.log.Warn("chat", "Failed to store cache record", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (cs *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperr.EmptyPrompt()
	}

	// A cache hit returns immediately: no retrieval, no inference, and no
	// history write, since the cached answer was produced without this
	// session's context.
	if cs.flags.CacheEnabled {
		if cached, ok := cs.cache.Lookup(ctx, prompt); ok {
			cs.log.Info("chat", "Semantic cache hit", map[string]interface{}{
				"hits": cs.cache.Hits(),
			})
			return &dto.SendChatResponse{
				Response:   cached,
				Source:     dto.SourceSemanticCache,
				RagContext: nil,
			}, nil
		}
	}

	p, err := cs.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := cs.llmProvider.Chat(ctx, p.messages)
	if err != nil {
		// A failed generation must not pollute the cache or the history.
		if errors.Is(err, llm.ErrEngineUnavailable) {
			return nil, apperr.EngineUnavailable()
		}
		return nil, err
	}

	cs.commit(ctx, p, response)

	return &dto.SendChatResponse{
		Response:      response,
		Source:        dto.SourceModel,
		RagContext:    truncatedContext(p),
		InferenceTime: time.Since(start).Seconds(),
	}, nil
}

func (cs *chatService) StreamChat(ctx context.Context, req *dto.SendChatRequest, emit func(dto.StreamEvent) error) error {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return apperr.EmptyPrompt()
	}

	if cs.flags.CacheEnabled {
		if cached, ok := cs.cache.Lookup(ctx, prompt); ok {
			return emit(dto.StreamEvent{Token: cached, Source: dto.SourceSemanticCache})
		}
	}

	p, err := cs.prepare(ctx, req)
	if err != nil {
		return err
	}

	stream, err := cs.llmProvider.StreamChat(ctx, p.messages)
	if err != nil {
		if errors.Is(err, llm.ErrEngineUnavailable) {
			return apperr.EngineUnavailable()
		}
		return err
	}

	var full strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			// Incomplete response: surface the failure, write nothing.
			if errors.Is(chunk.Err, llm.ErrEngineUnavailable) {
				return apperr.EngineUnavailable()
			}
			return chunk.Err
		}
		full.WriteString(chunk.Content)
		if err := emit(dto.StreamEvent{Token: chunk.Content, Source: dto.SourceModel}); err != nil {
			// Consumer disconnected; the stream producer stops via ctx. The
			// exchange never completed for the caller, so nothing is stored.
			return err
		}
	}

	cs.commit(ctx, p, full.String())
	return nil
}

func truncatedContext(p *prepared) *string {
	if !p.hasContext {
		return nil
	}
	preview := p.ragContext
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return &preview
}
