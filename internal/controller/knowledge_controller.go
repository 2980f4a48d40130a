package controller

import (
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/pkg/serverutils"
	"ai-gateway-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	publisher     service.IPublisherService
	jwtMiddleware fiber.Handler
}

func NewKnowledgeController(publisher service.IPublisherService, jwtMiddleware fiber.Handler) IKnowledgeController {
	return &knowledgeController{
		publisher:     publisher,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(c.jwtMiddleware)
	h.Post("", c.Ingest)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.publisher.PublishIngestKnowledge(ctx.Context(), req.Text, req.Source); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).
		JSON(serverutils.SuccessResponse[any]("Knowledge queued for ingestion", nil))
}
