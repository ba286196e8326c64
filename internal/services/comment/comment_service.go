package comment

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/models"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

// DefaultAuthorName подставляется, если посетитель не представился
const DefaultAuthorName = "Visitante"

// Store - хранилище комментариев
type Store interface {
	GetPiece(ctx context.Context, id string) (*models.Piece, error)
	ListComments(ctx context.Context, pieceID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// CreateCommentInput - данные нового комментария
type CreateCommentInput struct {
	AuthorName string `json:"authorName" validate:"max=120"`
	Text       string `json:"text" validate:"required,max=2000"`
}

// CommentService управляет комментариями к экземплярам
type CommentService struct {
	store    Store
	log      *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewCommentService создает новый экземпляр CommentService
func NewCommentService(store Store, log *logger.Logger) *CommentService {
	return &CommentService{
		store:    store,
		log:      log.With("component", "comment"),
		validate: utils.NewValidator(),
		now:      time.Now,
	}
}

// List возвращает комментарии к экземпляру, новые первыми
func (s *CommentService) List(ctx context.Context, pieceID string) ([]models.Comment, error) {
	if _, err := s.store.GetPiece(ctx, pieceID); err != nil {
		return nil, err
	}
	return s.store.ListComments(ctx, pieceID)
}

// Create добавляет комментарий к экземпляру
func (s *CommentService) Create(ctx context.Context, actor models.Actor, pieceID string, in CreateCommentInput) (*models.Comment, error) {
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.Text = strings.TrimSpace(in.Text)
	if err := utils.ValidateStruct(s.validate, in); err != nil {
		return nil, err
	}

	if _, err := s.store.GetPiece(ctx, pieceID); err != nil {
		return nil, err
	}

	author := in.AuthorName
	if author == "" {
		author = actor.Name
	}
	if author == "" {
		author = DefaultAuthorName
	}

	c := &models.Comment{
		ID:         uuid.New().String(),
		PieceID:    pieceID,
		AuthorName: author,
		Text:       in.Text,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.log.Debug("Комментарий добавлен", "comment_id", c.ID, "piece_id", pieceID)
	return c, nil
}

// Delete удаляет комментарий экземпляра
func (s *CommentService) Delete(ctx context.Context, pieceID, commentID string) error {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if c.PieceID != pieceID {
		return apperr.NotFound("Comentario", commentID)
	}
	return s.store.DeleteComment(ctx, commentID)
}
