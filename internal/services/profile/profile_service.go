package profile

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/db"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// DefaultName - имя профиля, который еще не заполнен
const DefaultName = "Coleccionista"

// Store - хранилище профилей
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, defaults models.UserProfile, upd models.ProfileUpdate) (*models.UserProfile, error)
}

// ProfileService управляет публичными профилями
type ProfileService struct {
	store Store
	log   *logger.Logger
}

// NewProfileService создает новый экземпляр ProfileService
func NewProfileService(store Store, log *logger.Logger) *ProfileService {
	return &ProfileService{store: store, log: log.With("component", "profile")}
}

// Get возвращает профиль или профиль по умолчанию, если он еще не сохранен
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if apperr.IsNotFound(err) {
		d := defaultProfile(userID)
		return &d, nil
	}
	return p, err
}

// Upsert создает или частично обновляет профиль
func (s *ProfileService) Upsert(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("userId", "es obligatorio")
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.Validation("name", "no puede estar vacío")
		}
		upd.Name = &name
	}

	p, err := s.store.UpsertProfile(ctx, defaultProfile(userID), upd)
	if err != nil {
		return nil, err
	}
	s.log.Info("Профиль сохранен", "user_id", userID)
	return p, nil
}

func defaultProfile(userID string) models.UserProfile {
	return models.UserProfile{UserID: userID, Name: DefaultName}
}

// SetupRoutes настраивает маршруты профиля
func (s *ProfileService) SetupRoutes(api fiber.Router) {
	profile := api.Group("/profile")

	profile.Get("/:userId", s.GetProfile)
	profile.Put("/:userId", s.UpdateProfile, middleware.RequireOwner())
}

// GetProfile возвращает профиль пользователя
func (s *ProfileService) GetProfile(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := s.Get(ctx, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// UpdateProfile сохраняет изменения профиля
func (s *ProfileService) UpdateProfile(c fiber.Ctx) error {
	var upd models.ProfileUpdate
	if err := c.Bind().Body(&upd); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := s.Upsert(ctx, c.Params("userId"), upd)
	if err != nil {
		return err
	}
	return c.JSON(p)
}
