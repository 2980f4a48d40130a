package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/pkg/serverutils"
	"ai-gateway-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
}

type chatController struct {
	service          service.IChatService
	apiKeyMiddleware fiber.Handler
}

func NewChatController(service service.IChatService, apiKeyMiddleware fiber.Handler) IChatController {
	return &chatController{
		service:          service,
		apiKeyMiddleware: apiKeyMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(c.apiKeyMiddleware)
	h.Post("", c.Send)
	h.Post("/stream", c.Stream)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// Stream replies with server-sent events. Each fragment is one
// `data: {"token":...,"source":...}` frame; the stream ends with a
// `data: [DONE]` sentinel. A cache hit arrives as a single frame.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	fctx := ctx.Context()
	fctx.SetContentType("text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	fctx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// The writer outlives the fiber handler, so the producer hangs off a
		// fresh context cancelled when the client stops reading.
		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := c.service.StreamChat(streamCtx, &req, func(ev dto.StreamEvent) error {
			payload, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				cancel()
				return err
			}
			if err := w.Flush(); err != nil {
				cancel()
				return err
			}
			return nil
		})
		if err != nil {
			payload, _ := json.Marshal(fiber.Map{"error": err.Error()})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}

		fmt.Fprint(w, "data: [DONE]\n\n")
		w.Flush()
	}))

	return nil
}
