package response

import (
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the flat error contract shared by every endpoint
type ErrorBody struct {
	Error string `json:"error"`
}

// OK sends a 200 response with body as-is
func OK(c *fiber.Ctx, body interface{}) error {
	return c.JSON(body)
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, body interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, code string) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: code})
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, "internal_error")
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindReferential, domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError renders err. Unexpected errors are logged and reported as
// internal_error so no driver or SQL detail reaches the client.
func FromError(c *fiber.Ctx, log *logger.Logger, err error) error {
	kind := domain.KindOf(err)
	if kind == domain.KindUnexpected {
		log.Error("request failed",
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return InternalServerError(c)
	}
	return Error(c, StatusFor(kind), domain.CodeOf(err))
}
