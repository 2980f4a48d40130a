package serverutils

import (
	"errors"

	"ai-gateway-be/internal/apperr"
	"ai-gateway-be/pkg/gate"

	"github.com/gofiber/fiber/v2"
)

const ApiKeyHeader = "X-API-Key"

// NewApiKeyMiddleware is the gate in front of every inference-triggering
// route. Rejections short-circuit before any handler side effects; the
// resulting grant is stored in locals for handlers that need the tier.
func NewApiKeyMiddleware(verifier *gate.Verifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		grant, err := verifier.Verify(ctx.Context(), ctx.Get(ApiKeyHeader))
		if err != nil {
			return mapGateError(err)
		}

		ctx.Locals("grant", grant)
		return ctx.Next()
	}
}

func mapGateError(err error) error {
	var rle *gate.RateLimitError
	switch {
	case errors.Is(err, gate.ErrMissingKey):
		return apperr.MissingCredential()
	case errors.Is(err, gate.ErrInvalidKey):
		return apperr.InvalidCredential()
	case errors.Is(err, gate.ErrUnavailable):
		return apperr.ServiceUnavailable("")
	case errors.As(err, &rle):
		return apperr.RateLimited(rle.RetryAfter)
	default:
		return apperr.ServiceUnavailable(err.Error())
	}
}
