package comment

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/db"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
)

// SetupRoutes настраивает маршруты комментариев
func (s *CommentService) SetupRoutes(api fiber.Router) {
	comments := api.Group("/pieces/:pieceId/comments")

	comments.Get("/", s.ListComments)
	comments.Post("/", s.CreateComment, middleware.PublicWrite())
	comments.Delete("/:commentId", s.DeleteComment, middleware.RequireOwner())
}

// ListComments возвращает комментарии к экземпляру
func (s *CommentService) ListComments(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	comments, err := s.List(ctx, c.Params("pieceId"))
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// CreateComment добавляет комментарий
func (s *CommentService) CreateComment(c fiber.Ctx) error {
	var in CreateCommentInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	comment, err := s.Create(ctx, middleware.ActorFrom(c), c.Params("pieceId"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment удаляет комментарий
func (s *CommentService) DeleteComment(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.Delete(ctx, c.Params("pieceId"), c.Params("commentId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
