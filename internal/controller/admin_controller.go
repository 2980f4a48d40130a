package controller

import (
	"strconv"

	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/pkg/serverutils"
	"ai-gateway-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	GenerateKey(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	authService   service.IAuthService
	keyService    service.IKeyService
	sysLogger     logger.ILogger
	jwtMiddleware fiber.Handler
}

func NewAdminController(
	authService service.IAuthService,
	keyService service.IKeyService,
	sysLogger logger.ILogger,
	jwtMiddleware fiber.Handler,
) IAdminController {
	return &adminController{
		authService:   authService,
		keyService:    keyService,
		sysLogger:     sysLogger,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("/login", c.Login)

	protected := h.Group("", c.jwtMiddleware)
	protected.Post("/keys", c.GenerateKey)
	protected.Get("/logs", c.GetLogs)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *adminController) GenerateKey(ctx *fiber.Ctx) error {
	req := dto.GenerateKeyRequest{Tier: "free"}
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.keyService.GenerateKey(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("API key generated", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	logs, err := c.sysLogger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Logs retrieved", logs))
}
