package exchange

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (h *Handler) SetupRoutes(api fiber.Router) {
	exchanges := api.Group("/exchanges")

	exchanges.Get("/", h.ListExchanges)
	// history регистрируется раньше /:id, иначе попадет в GetExchange
	exchanges.Get("/history", h.ListHistory)
	exchanges.Get("/:id", h.GetExchange)
	// fiber v3: обработчик первым, middleware после него (выполняются раньше обработчика)
	exchanges.Post("/", h.CreateExchange, middleware.PublicWrite())

	// Решения по предложению принимает только владелец коллекции
	exchanges.Patch("/:id/status", h.UpdateStatus, middleware.RequireOwner())
	exchanges.Patch("/:id/counter-offer", h.SendCounterOffer, middleware.RequireOwner())

	// Ответить на контрпредложение может любой участник
	exchanges.Patch("/:id/counter-response", h.RespondToCounter)
}
