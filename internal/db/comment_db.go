package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// ListComments возвращает комментарии к экземпляру, новые первыми
func (s *Store) ListComments(ctx context.Context, pieceID string) ([]models.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, piece_id, author_name, text, created_at
		FROM comments
		WHERE piece_id = $1
		ORDER BY created_at DESC
	`, pieceID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}
	defer rows.Close()

	out := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PieceID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка при чтении комментария: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении комментариев: %w", err)
	}
	return out, nil
}

// CreateComment сохраняет комментарий
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO comments (id, piece_id, author_name, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.PieceID, c.AuthorName, c.Text, c.CreatedAt)
	if isForeignKeyViolation(err) {
		return apperr.NotFound("Pieza", c.PieceID)
	}
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}
	return nil
}

// GetComment возвращает комментарий по ID
func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRow(ctx, `
		SELECT id, piece_id, author_name, text, created_at FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.PieceID, &c.AuthorName, &c.Text, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Comentario", id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментария: %w", err)
	}
	return &c, nil
}

// DeleteComment удаляет комментарий
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка при удалении комментария: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comentario", id)
	}
	return nil
}
