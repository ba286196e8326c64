package piece

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/db"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// Handler - HTTP-обработчики каталога
type Handler struct {
	service *PieceService
}

// NewHandler создает обработчики каталога
func NewHandler(service *PieceService) *Handler {
	return &Handler{service: service}
}

// ListPieces возвращает весь каталог
func (h *Handler) ListPieces(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	pieces, err := h.service.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(pieces)
}

// TopPieces возвращает избранные экземпляры
func (h *Handler) TopPieces(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultTopLimit)))

	ctx, cancel := db.GetContext()
	defer cancel()

	pieces, err := h.service.Top(ctx, limit)
	if err != nil {
		return err
	}
	return c.JSON(pieces)
}

// GetPiece возвращает экземпляр по ID
func (h *Handler) GetPiece(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := h.service.Get(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// SimilarPieces возвращает похожие экземпляры
func (h *Handler) SimilarPieces(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultSimilarLimit)))

	ctx, cancel := db.GetContext()
	defer cancel()

	pieces, err := h.service.Similar(ctx, c.Params("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(pieces)
}

// CreatePiece добавляет экземпляр в коллекцию
func (h *Handler) CreatePiece(c fiber.Ctx) error {
	var in CreatePieceInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := h.service.Create(ctx, middleware.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdatePiece частично обновляет экземпляр
func (h *Handler) UpdatePiece(c fiber.Ctx) error {
	var upd models.PieceUpdate
	if err := c.Bind().Body(&upd); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := h.service.Update(ctx, c.Params("id"), upd)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// SetTop меняет признак избранного
func (h *Handler) SetTop(c fiber.Ctx) error {
	var req struct {
		IsTop *bool `json:"isTop"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}
	if req.IsTop == nil {
		return apperr.Validation("isTop", "es obligatorio")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := h.service.SetTop(ctx, c.Params("id"), *req.IsTop)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// ToggleExchange открывает или закрывает экземпляр для обмена
func (h *Handler) ToggleExchange(c fiber.Ctx) error {
	var req struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}
	if req.Available == nil {
		return apperr.Validation("available", "es obligatorio")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := h.service.ToggleExchange(ctx, c.Params("id"), *req.Available)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// DeletePiece удаляет экземпляр
func (h *Handler) DeletePiece(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	if err := h.service.Delete(ctx, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
