package serverutils

import (
	"ai-gateway-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// NewAdminJwtMiddleware guards administrative routes (key issuance, knowledge
// ingestion, log reading) with the HS256 token issued by the login endpoint.
// An empty secret means no admin token can legitimately exist, so the gate
// rejects everything rather than validate against the empty key.
func NewAdminJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return apperr.ServiceUnavailable("Admin access is not configured")
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return apperr.Unauthorized("Missing token")
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return apperr.Unauthorized("Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != "admin" {
			return apperr.Unauthorized("Invalid claims")
		}

		ctx.Locals("admin", claims["sub"])
		return ctx.Next()
	}
}
