package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/logger"
)

// StatusFor переводит ошибку приложения в HTTP-статус
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case apperr.IsNotFound(err):
		return fiber.StatusNotFound
	case apperr.IsValidation(err):
		return fiber.StatusBadRequest
	case apperr.IsConflict(err):
		return fiber.StatusConflict
	case apperr.IsForbidden(err):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler обрабатывает ошибки Fiber и отдает их в JSON
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := err.Error()

		// Внутренние ошибки не раскрываем клиенту
		if code == fiber.StatusInternalServerError {
			log.Error("Необработанная ошибка", "method", c.Method(), "path", c.Path(), "error", err)
			message = "Error interno del servidor"
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
