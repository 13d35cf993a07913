package controller

import (
	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/serverutils"
	"market-insights-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPersonaController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	StartConversation(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	EndConversation(ctx *fiber.Ctx) error
	Survey(ctx *fiber.Ctx) error
	FocusGroup(ctx *fiber.Ctx) error
}

type personaController struct {
	service service.IPersonaService
}

func NewPersonaController(service service.IPersonaService) IPersonaController {
	return &personaController{service: service}
}

func (c *personaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/persona/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/generate", c.Generate)
	h.Get("", c.List)
	h.Post("/conversation", c.StartConversation)
	h.Post("/chat", c.Chat)
	h.Delete("/conversation/:id", c.EndConversation)
	h.Post("/survey", c.Survey)
	h.Post("/focus-group", c.FocusGroup)
}

func (c *personaController) Generate(ctx *fiber.Ctx) error {
	var req dto.GeneratePersonasRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate personas", res))
}

func (c *personaController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get personas", res))
}

func (c *personaController) StartConversation(ctx *fiber.Ctx) error {
	var req dto.StartConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StartConversation(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start conversation", res))
}

func (c *personaController) Chat(ctx *fiber.Ctx) error {
	var req dto.PersonaChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success persona chat", res))
}

func (c *personaController) EndConversation(ctx *fiber.Ctx) error {
	if err := c.service.EndConversation(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end conversation", nil))
}

func (c *personaController) Survey(ctx *fiber.Ctx) error {
	var req dto.SurveyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Survey(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run survey", res))
}

func (c *personaController) FocusGroup(ctx *fiber.Ctx) error {
	var req dto.FocusGroupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.FocusGroup(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run focus group", res))
}
