package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

const exchangeColumns = `id, from_user_id, to_user_id, from_piece_id, to_piece_id, status,
	requester_name, requester_email, message, counter_offer, counter_response,
	completed_at, created_at, updated_at, version`

// CreateExchange сохраняет новое предложение обмена
func (s *Store) CreateExchange(ctx context.Context, ex *models.ExchangeRequest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO exchange_requests (`+exchangeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, ex.ID, ex.FromUserID, ex.ToUserID, ex.FromPieceID, ex.ToPieceID, string(ex.Status),
		ex.RequesterName, ex.RequesterEmail, ex.Message, ex.CounterOffer, ex.CounterResponse,
		ex.CompletedAt, ex.CreatedAt, ex.UpdatedAt, ex.Version)
	switch {
	case isUniqueViolation(err):
		return apperr.Conflict("solicitud %s ya existe", ex.ID)
	case isForeignKeyViolation(err):
		return apperr.NotFound("Pieza", ex.FromPieceID+", "+ex.ToPieceID)
	case err != nil:
		return fmt.Errorf("ошибка при создании предложения обмена: %w", err)
	}
	return nil
}

// GetExchange возвращает предложение обмена по ID
func (s *Store) GetExchange(ctx context.Context, id string) (*models.ExchangeRequest, error) {
	row := s.db.QueryRow(ctx, `SELECT `+exchangeColumns+` FROM exchange_requests WHERE id = $1`, id)

	ex, err := scanExchange(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Solicitud", id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении предложения обмена: %w", err)
	}
	return ex, nil
}

// UpdateExchange сохраняет запись условным UPDATE по версии
func (s *Store) UpdateExchange(ctx context.Context, ex *models.ExchangeRequest, expectedVersion int) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE exchange_requests
		SET status = $3, message = $4, counter_offer = $5, counter_response = $6,
			completed_at = $7, updated_at = $8, version = $9
		WHERE id = $1 AND version = $2
	`, ex.ID, expectedVersion, string(ex.Status), ex.Message, ex.CounterOffer, ex.CounterResponse,
		ex.CompletedAt, ex.UpdatedAt, ex.Version)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении предложения обмена: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Ни одна строка не обновлена: записи нет или ее версия уже другая
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM exchange_requests WHERE id = $1)`, ex.ID).Scan(&exists); err != nil {
		return fmt.Errorf("ошибка при проверке предложения обмена: %w", err)
	}
	if !exists {
		return apperr.NotFound("Solicitud", ex.ID)
	}
	return apperr.Conflict("la solicitud %s fue modificada por otra operación", ex.ID)
}

// ListExchanges возвращает все предложения, новые первыми
func (s *Store) ListExchanges(ctx context.Context) ([]models.ExchangeRequest, error) {
	rows, err := s.db.Query(ctx, `SELECT `+exchangeColumns+` FROM exchange_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении предложений обмена: %w", err)
	}
	return collectExchanges(rows)
}

// ListExchangesByStatus возвращает предложения с указанными статусами, недавно измененные первыми
func (s *Store) ListExchangesByStatus(ctx context.Context, statuses []models.ExchangeStatus) ([]models.ExchangeRequest, error) {
	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+exchangeColumns+` FROM exchange_requests
		WHERE status = ANY($1)
		ORDER BY updated_at DESC
	`, values)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории обменов: %w", err)
	}
	return collectExchanges(rows)
}

func collectExchanges(rows pgx.Rows) ([]models.ExchangeRequest, error) {
	defer rows.Close()

	out := make([]models.ExchangeRequest, 0)
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка при чтении предложения обмена: %w", err)
		}
		out = append(out, *ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении предложений обмена: %w", err)
	}
	return out, nil
}

func scanExchange(row pgx.Row) (*models.ExchangeRequest, error) {
	var (
		ex                                     models.ExchangeRequest
		status                                 string
		message, counterOffer, counterResponse pgtype.Text
		completedAt                            pgtype.Timestamptz
	)
	err := row.Scan(&ex.ID, &ex.FromUserID, &ex.ToUserID, &ex.FromPieceID, &ex.ToPieceID, &status,
		&ex.RequesterName, &ex.RequesterEmail, &message, &counterOffer, &counterResponse,
		&completedAt, &ex.CreatedAt, &ex.UpdatedAt, &ex.Version)
	if err != nil {
		return nil, err
	}

	ex.Status = models.ExchangeStatus(status)
	ex.Message = textPtr(message)
	ex.CounterOffer = textPtr(counterOffer)
	ex.CounterResponse = textPtr(counterResponse)
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		ex.CompletedAt = &t
	}
	return &ex, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
