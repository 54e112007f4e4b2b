package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/dealspot/internal/apperrors"
	"github.com/example/dealspot/internal/middleware"
)

// ErrorHandler is the single place internal error kinds become status codes,
// log lines and response bodies. Handlers and repositories return typed
// errors and never log.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"error":   fiberErr.Message,
			})
		}

		log := middleware.RequestLogger(c)

		switch apperrors.KindOf(err) {
		case apperrors.KindValidation:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "validation failed",
				"errors":  apperrors.FieldsOf(err),
			})
		case apperrors.KindDependencyMissing:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   errMessage(err),
			})
		case apperrors.KindAuthorization:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   errMessage(err),
			})
		case apperrors.KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   errMessage(err),
			})
		case apperrors.KindConflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   errMessage(err),
			})
		default:
			// Store and unclassified errors: full detail stays server-side.
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "internal server error",
			})
		}
	}
}

func errMessage(err error) string {
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		return ae.Msg
	}
	return err.Error()
}
