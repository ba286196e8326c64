package piece

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/middleware"
)

// SetupRoutes настраивает маршруты каталога
func (h *Handler) SetupRoutes(api fiber.Router) {
	pieces := api.Group("/pieces")

	// Публичные маршруты; top объявлен раньше /:id
	pieces.Get("/", h.ListPieces)
	pieces.Get("/top", h.TopPieces)
	pieces.Get("/:id", h.GetPiece)
	pieces.Get("/:id/similar", h.SimilarPieces)

	// Изменять каталог может только владелец
	owner := middleware.RequireOwner()
	pieces.Post("/", h.CreatePiece, owner)
	pieces.Patch("/:id", h.UpdatePiece, owner)
	pieces.Patch("/:id/top", h.SetTop, owner)
	pieces.Patch("/:id/toggle-exchange", h.ToggleExchange, owner)
	pieces.Delete("/:id", h.DeletePiece, owner)
}
