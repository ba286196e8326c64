package auth

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты авторизации
func (s *AuthService) SetupRoutes(api fiber.Router) {
	auth := api.Group("/auth")

	auth.Post("/login", s.OwnerLoginHandler)
	auth.Post("/visitor", s.VisitorLoginHandler)
	auth.Post("/telegram", s.TelegramAuthHandler)
	auth.Get("/me", s.MeHandler)
}
