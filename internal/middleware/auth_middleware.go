package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

const actorKey = "actor"

// AuthMiddleware определяет актора запроса по JWT.
// Запрос без заголовка Authorization выполняется от имени анонимного посетителя.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals(actorKey, models.Actor{Role: models.RoleVisitor})
			return c.Next()
		}

		// Проверяем Bearer токен
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		actor, err := jwtService.ExtractActor(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// RequireOwner пропускает только владельца коллекции
func RequireOwner() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !ActorFrom(c).IsOwner() {
			return apperr.Forbidden("Solo el propietario de la colección puede realizar esta acción")
		}
		return c.Next()
	}
}

// ActorFrom возвращает актора, сохраненного AuthMiddleware
func ActorFrom(c fiber.Ctx) models.Actor {
	if actor, ok := c.Locals(actorKey).(models.Actor); ok {
		return actor
	}
	return models.Actor{Role: models.RoleVisitor}
}
