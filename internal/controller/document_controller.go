package controller

import (
	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/serverutils"
	"market-insights-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	BulkIngest(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Snapshot(ctx *fiber.Ctx) error
	LoadSnapshot(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Add)
	h.Post("/bulk", c.BulkIngest)
	h.Delete("/all", c.Clear)
	h.Delete(":id", c.Delete)
	h.Get("/stats", c.Stats)
	h.Post("/snapshot", c.Snapshot)
	h.Post("/snapshot/load", c.LoadSnapshot)
}

func (c *documentController) Add(ctx *fiber.Ctx) error {
	var req dto.AddDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Add(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add document", res))
}

func (c *documentController) BulkIngest(ctx *fiber.Ctx) error {
	var req dto.BulkIngestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.BulkIngest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for ingestion", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.service.Delete(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete document", res))
}

func (c *documentController) Clear(ctx *fiber.Ctx) error {
	removed, err := c.service.Clear(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear store", fiber.Map{"removed": removed}))
}

func (c *documentController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get store stats", res))
}

func (c *documentController) Snapshot(ctx *fiber.Ctx) error {
	var req dto.SnapshotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SaveSnapshot(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save snapshot", res))
}

func (c *documentController) LoadSnapshot(ctx *fiber.Ctx) error {
	var req dto.SnapshotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.LoadSnapshot(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load snapshot", res))
}
