package exchange

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/db"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// PieceLookup проверяет существование экземпляров при создании предложения
type PieceLookup interface {
	GetPiece(ctx context.Context, id string) (*models.Piece, error)
}

// Handler - HTTP-обработчики предложений обмена
type Handler struct {
	service *ExchangeService
	pieces  PieceLookup
}

// NewHandler создает обработчики поверх движка обменов
func NewHandler(service *ExchangeService, pieces PieceLookup) *Handler {
	return &Handler{service: service, pieces: pieces}
}

// ListExchanges возвращает все предложения обмена
func (h *Handler) ListExchanges(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	exchanges, err := h.service.ListAll(ctx)
	if err != nil {
		return err
	}
	return c.JSON(exchanges)
}

// ListHistory возвращает завершенные предложения обмена
func (h *Handler) ListHistory(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	exchanges, err := h.service.ListHistory(ctx)
	if err != nil {
		return err
	}
	return c.JSON(exchanges)
}

// GetExchange возвращает предложение обмена по ID
func (h *Handler) GetExchange(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	ex, err := h.service.Get(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ex)
}

// CreateExchange обрабатывает новое предложение обмена
func (h *Handler) CreateExchange(c fiber.Ctx) error {
	var in CreateExchangeInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}
	in.normalize()
	if err := h.service.Validate(in); err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	for _, id := range []string{in.FromPieceID, in.ToPieceID} {
		if _, err := h.pieces.GetPiece(ctx, id); err != nil {
			return err
		}
	}

	ex, err := h.service.Create(ctx, middleware.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ex)
}

// UpdateStatus принимает или отклоняет предложение
func (h *Handler) UpdateStatus(c fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ex, err := h.service.UpdateStatus(ctx, middleware.ActorFrom(c), c.Params("id"), models.ExchangeStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(ex)
}

// SendCounterOffer отправляет контрпредложение посетителю
func (h *Handler) SendCounterOffer(c fiber.Ctx) error {
	var req struct {
		CounterOffer string `json:"counterOffer"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ex, err := h.service.SendCounterOffer(ctx, middleware.ActorFrom(c), c.Params("id"), req.CounterOffer)
	if err != nil {
		return err
	}
	return c.JSON(ex)
}

// RespondToCounter обрабатывает ответ посетителя на контрпредложение
func (h *Handler) RespondToCounter(c fiber.Ctx) error {
	var req struct {
		Action  string `json:"action"`
		Message string `json:"message"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ex, err := h.service.RespondToCounter(ctx, middleware.ActorFrom(c), c.Params("id"), req.Action, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(ex)
}
