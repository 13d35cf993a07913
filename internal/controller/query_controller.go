package controller

import (
	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/serverutils"
	"market-insights-be/internal/service"
	"market-insights-be/pkg/rag/mode"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	QueryPure(ctx *fiber.Ctx) error
	QueryCreative(ctx *fiber.Ctx) error
	QueryHybrid(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type queryController struct {
	service service.IQueryService
}

func NewQueryController(service service.IQueryService) IQueryController {
	return &queryController{service: service}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/query/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Query)
	h.Post("/pure", c.QueryPure)
	h.Post("/creative", c.QueryCreative)
	h.Post("/hybrid", c.QueryHybrid)
	h.Post("/search", c.Search)
}

func (c *queryController) Query(ctx *fiber.Ctx) error {
	return c.run(ctx, "")
}

func (c *queryController) QueryPure(ctx *fiber.Ctx) error {
	return c.run(ctx, mode.Pure)
}

func (c *queryController) QueryCreative(ctx *fiber.Ctx) error {
	return c.run(ctx, mode.Creative)
}

func (c *queryController) QueryHybrid(ctx *fiber.Ctx) error {
	return c.run(ctx, mode.Hybrid)
}

// run handles the shared body parsing; forcedMode pins the mode for the
// dedicated endpoints regardless of what the body says.
func (c *queryController) run(ctx *fiber.Ctx, forcedMode string) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if forcedMode != "" {
		req.Mode = forcedMode
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Query(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run query", res))
}

func (c *queryController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run search", res))
}
