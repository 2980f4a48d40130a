package serverutils

import (
	"errors"
	"strconv"

	"ai-gateway-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// shared response envelope. Rate-limit rejections also carry a Retry-After
// header so well-behaved clients can back off.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperr.AppError
		if errors.As(err, &appErr) {
			if appErr.RetryAfter > 0 {
				ctx.Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
			}
			return ctx.Status(appErr.Status).JSON(fiber.Map{
				"code":        appErr.Code,
				"message":     appErr.Message,
				"retry_after": appErr.RetryAfter,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
