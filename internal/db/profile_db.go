package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// GetProfile возвращает профиль пользователя
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var (
		p                    models.UserProfile
		createdAt, updatedAt time.Time
	)
	err := s.db.QueryRow(ctx, `
		SELECT user_id, name, photo_url, bio, created_at, updated_at
		FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.Name, &p.PhotoURL, &p.Bio, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Perfil", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении профиля: %w", err)
	}
	p.CreatedAt = &createdAt
	p.UpdatedAt = &updatedAt
	return &p, nil
}

// UpsertProfile создает профиль из defaults с примененными изменениями или обновляет существующий
func (s *Store) UpsertProfile(ctx context.Context, defaults models.UserProfile, upd models.ProfileUpdate) (*models.UserProfile, error) {
	insert := defaults
	if upd.Name != nil {
		insert.Name = *upd.Name
	}
	if upd.PhotoURL != nil {
		insert.PhotoURL = *upd.PhotoURL
	}
	if upd.Bio != nil {
		insert.Bio = *upd.Bio
	}

	var (
		p                    models.UserProfile
		createdAt, updatedAt time.Time
	)
	// NULL в параметрах $5-$7 оставляет существующее значение
	err := s.db.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, name, photo_url, bio)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			name = COALESCE($5, user_profiles.name),
			photo_url = COALESCE($6, user_profiles.photo_url),
			bio = COALESCE($7, user_profiles.bio),
			updated_at = NOW()
		RETURNING user_id, name, photo_url, bio, created_at, updated_at
	`, insert.UserID, insert.Name, insert.PhotoURL, insert.Bio, upd.Name, upd.PhotoURL, upd.Bio).
		Scan(&p.UserID, &p.Name, &p.PhotoURL, &p.Bio, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка при сохранении профиля: %w", err)
	}
	p.CreatedAt = &createdAt
	p.UpdatedAt = &updatedAt
	return &p, nil
}
