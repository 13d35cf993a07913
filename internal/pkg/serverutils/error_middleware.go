package serverutils

import (
	"errors"

	"market-insights-be/pkg/embedding"
	"market-insights-be/pkg/llm"
	"market-insights-be/pkg/rag/mode"
	"market-insights-be/pkg/vectormath"
	"market-insights-be/pkg/vectorstore"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts domain errors into HTTP responses so
// services stay free of transport concerns. Invalid input is a 400, a
// failing AI backend is a 502, everything else is a 500 with the detail
// kept out of the response body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var dimErr *vectormath.DimensionMismatchError
		var filterErr *vectorstore.InvalidFilterError
		var cfgErr *mode.InvalidConfigurationError
		switch {
		case errors.As(err, &dimErr),
			errors.As(err, &filterErr),
			errors.As(err, &cfgErr),
			errors.Is(err, vectorstore.ErrEmptyEmbedding):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))

		case errors.Is(err, embedding.ErrUnavailable),
			errors.Is(err, llm.ErrUnavailable):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
