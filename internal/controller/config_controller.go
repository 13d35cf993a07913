package controller

import (
	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/serverutils"
	"market-insights-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConfigController interface {
	RegisterRoutes(r fiber.Router)
	ListModes(ctx *fiber.Ctx) error
	GetMode(ctx *fiber.Ctx) error
	UpdateMode(ctx *fiber.Ctx) error
}

type configController struct {
	service service.IConfigService
}

func NewConfigController(service service.IConfigService) IConfigController {
	return &configController{service: service}
}

func (c *configController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/config/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/modes", c.ListModes)
	h.Get("/modes/:name", c.GetMode)
	h.Patch("/modes/:name", c.UpdateMode)
}

func (c *configController) ListModes(ctx *fiber.Ctx) error {
	res, err := c.service.ListModes(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get modes", res))
}

func (c *configController) GetMode(ctx *fiber.Ctx) error {
	res, err := c.service.GetMode(ctx.Context(), ctx.Params("name"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get mode", res))
}

func (c *configController) UpdateMode(ctx *fiber.Ctx) error {
	var req dto.UpdateModeConfigRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateMode(ctx.Context(), ctx.Params("name"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update mode", res))
}
