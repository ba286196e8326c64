package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

const pieceColumns = `id, name, type, country, year, conservation_state, image_url, image_url_back,
	description, available_for_exchange, is_top, user_id, created_at, updated_at`

// ListPieces возвращает все экземпляры, новые первыми
func (s *Store) ListPieces(ctx context.Context) ([]models.Piece, error) {
	rows, err := s.db.Query(ctx, `SELECT `+pieceColumns+` FROM pieces ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении экземпляров: %w", err)
	}
	return collectPieces(rows)
}

// ListTopPieces возвращает избранные экземпляры
func (s *Store) ListTopPieces(ctx context.Context, limit int) ([]models.Piece, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+pieceColumns+` FROM pieces
		WHERE is_top = TRUE
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении избранных экземпляров: %w", err)
	}
	return collectPieces(rows)
}

// CountTopPieces возвращает количество избранных экземпляров
func (s *Store) CountTopPieces(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM pieces WHERE is_top = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете избранных экземпляров: %w", err)
	}
	return count, nil
}

// GetPiece возвращает экземпляр по ID
func (s *Store) GetPiece(ctx context.Context, id string) (*models.Piece, error) {
	row := s.db.QueryRow(ctx, `SELECT `+pieceColumns+` FROM pieces WHERE id = $1`, id)

	p, err := scanPiece(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Pieza", id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении экземпляра: %w", err)
	}
	return p, nil
}

// CreatePieces сохраняет экземпляры в одной транзакции
func (s *Store) CreatePieces(ctx context.Context, pieces []models.Piece) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx) // Откатываем транзакцию в случае ошибки

	for _, p := range pieces {
		_, err := tx.Exec(ctx, `
			INSERT INTO pieces (`+pieceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, p.ID, p.Name, string(p.Type), p.Country, p.Year, string(p.ConservationState),
			p.ImageURL, p.ImageURLBack, p.Description, p.AvailableForExchange, p.IsTop,
			p.UserID, p.CreatedAt, p.UpdatedAt)
		if isUniqueViolation(err) {
			return apperr.Conflict("pieza %s ya existe", p.ID)
		}
		if err != nil {
			return fmt.Errorf("ошибка при создании экземпляра: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}

// UpdatePiece сохраняет все изменяемые поля экземпляра
func (s *Store) UpdatePiece(ctx context.Context, p *models.Piece) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE pieces
		SET name = $2, type = $3, country = $4, year = $5, conservation_state = $6,
			image_url = $7, image_url_back = $8, description = $9,
			available_for_exchange = $10, is_top = $11, updated_at = $12
		WHERE id = $1
	`, p.ID, p.Name, string(p.Type), p.Country, p.Year, string(p.ConservationState),
		p.ImageURL, p.ImageURLBack, p.Description, p.AvailableForExchange, p.IsTop, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении экземпляра: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Pieza", p.ID)
	}
	return nil
}

// DeletePiece удаляет экземпляр вместе с его предложениями обмена и комментариями
func (s *Store) DeletePiece(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM exchange_requests WHERE from_piece_id = $1 OR to_piece_id = $1`, id); err != nil {
		return fmt.Errorf("ошибка при удалении предложений обмена: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE piece_id = $1`, id); err != nil {
		return fmt.Errorf("ошибка при удалении комментариев: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM pieces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка при удалении экземпляра: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Pieza", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}

func collectPieces(rows pgx.Rows) ([]models.Piece, error) {
	defer rows.Close()

	out := make([]models.Piece, 0)
	for rows.Next() {
		p, err := scanPiece(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка при чтении экземпляра: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении экземпляров: %w", err)
	}
	return out, nil
}

func scanPiece(row pgx.Row) (*models.Piece, error) {
	var (
		p                       models.Piece
		pieceType, conservation string
	)
	err := row.Scan(&p.ID, &p.Name, &pieceType, &p.Country, &p.Year, &conservation,
		&p.ImageURL, &p.ImageURLBack, &p.Description, &p.AvailableForExchange, &p.IsTop,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Type = models.PieceType(pieceType)
	p.ConservationState = models.ConservationState(conservation)
	return &p, nil
}
