package controller

import (
	"ai-gateway-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Live(ctx *fiber.Ctx) error
	Ready(ctx *fiber.Ctx) error
}

type healthController struct {
	llmProvider llm.Provider
}

func NewHealthController(llmProvider llm.Provider) IHealthController {
	return &healthController{llmProvider: llmProvider}
}

// Health routes sit outside /api so probes skip auth and CORS concerns.
func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Live)
	app.Get("/health/ready", c.Ready)
}

func (c *healthController) Live(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// Ready reports whether the inference engine is reachable, so orchestrators
// hold traffic until the model is loaded.
func (c *healthController) Ready(ctx *fiber.Ctx) error {
	if checker, ok := c.llmProvider.(llm.ReadyChecker); ok {
		if !checker.Ready(ctx.Context()) {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"status": "loading", "detail": "Model still loading"})
		}
	}
	return ctx.JSON(fiber.Map{"status": "ready"})
}
