package dto

type SendChatRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	SessionId string `json:"session_id"`
}

// Source values for SendChatResponse and StreamEvent.
const (
	SourceModel         = "model"
	SourceSemanticCache = "semantic_cache"
)

type SendChatResponse struct {
	Response      string  `json:"response"`
	Source        string  `json:"source"`
	RagContext    *string `json:"rag_context"`
	InferenceTime float64 `json:"inference_time,omitempty"`
}

// StreamEvent is one SSE payload frame on /chat/v1/stream.
type StreamEvent struct {
	Token  string `json:"token"`
	Source string `json:"source"`
}
