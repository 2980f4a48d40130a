package apperr

import "fmt"

// AppError is the typed failure surfaced to HTTP callers. Code values are
// stable strings clients can switch on; Status is the HTTP status to emit.
type AppError struct {
	Status     int
	Code       string
	Message    string
	RetryAfter int // seconds, only set for rate-limit rejections
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func MissingCredential() *AppError {
	return &AppError{Status: 401, Code: "missing_credential", Message: "Missing API Key"}
}

func InvalidCredential() *AppError {
	return &AppError{Status: 401, Code: "invalid_credential", Message: "Invalid API Key"}
}

func RateLimited(retryAfter int) *AppError {
	return &AppError{
		Status:     429,
		Code:       "rate_limited",
		Message:    fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter),
		RetryAfter: retryAfter,
	}
}

func ServiceUnavailable(msg string) *AppError {
	if msg == "" {
		msg = "Security service unavailable"
	}
	return &AppError{Status: 503, Code: "service_unavailable", Message: msg}
}

func EngineUnavailable() *AppError {
	return &AppError{Status: 503, Code: "engine_unavailable", Message: "Inference engine is not available"}
}

func EmptyPrompt() *AppError {
	return &AppError{Status: 400, Code: "empty_prompt", Message: "Prompt is required"}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Status: 401, Code: "unauthorized", Message: msg}
}
