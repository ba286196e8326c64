package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
	"github.com/rajivgeraev/numisma-api/internal/models"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	log        *logger.Logger
	validate   *validator.Validate
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, jwtService *utils.JWTService, log *logger.Logger) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: jwtService,
		log:        log.With("component", "auth"),
		validate:   utils.NewValidator(),
	}
}

type ownerLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type visitorLoginInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
}

// OwnerLoginHandler выдает токен владельцу коллекции по email и паролю
func (s *AuthService) OwnerLoginHandler(c fiber.Ctx) error {
	var in ownerLoginInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.ValidateStruct(s.validate, in); err != nil {
		return err
	}

	identity := s.cfg.Identity
	if identity.OwnerPasswordHash == "" {
		s.log.Warn("Вход владельца отключен: OWNER_PASSWORD_HASH не задан")
		return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
	}
	if in.Email != identity.OwnerEmail ||
		bcrypt.CompareHashAndPassword([]byte(identity.OwnerPasswordHash), []byte(in.Password)) != nil {
		s.log.Info("Неудачная попытка входа владельца", "email", in.Email)
		return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
	}

	return s.issue(c, models.Actor{
		UserID: identity.OwnerUserID,
		Email:  identity.OwnerEmail,
		Role:   models.RoleOwner,
	})
}

// VisitorLoginHandler выдает токен посетителю, который представился
func (s *AuthService) VisitorLoginHandler(c fiber.Ctx) error {
	var in visitorLoginInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.ValidateStruct(s.validate, in); err != nil {
		return err
	}

	return s.issue(c, models.Actor{
		UserID: visitorID(in.Email),
		Name:   in.Name,
		Email:  in.Email,
		Role:   models.RoleVisitor,
	})
}

// TelegramAuthHandler проверяет initData, создает JWT и возвращает его
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	if s.cfg.TelegramBotToken == "" {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Autenticación de Telegram no configurada")
	}

	var payload struct {
		InitData string `json:"init_data"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return apperr.Validation("", "Formato de datos inválido")
	}

	// Проверяем initData
	expiration := 24 * time.Hour
	if err := initdata.Validate(payload.InitData, s.cfg.TelegramBotToken, expiration); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Datos de Telegram inválidos")
	}

	// Парсим данные
	data, err := initdata.Parse(payload.InitData)
	if err != nil {
		return apperr.Validation("init_data", "no se pudo interpretar")
	}

	name := strings.TrimSpace(data.User.FirstName + " " + data.User.LastName)
	return s.issue(c, models.Actor{
		UserID: "tg-" + strconv.FormatInt(data.User.ID, 10),
		Name:   name,
		Role:   models.RoleVisitor,
	})
}

// MeHandler возвращает актора текущего запроса
func (s *AuthService) MeHandler(c fiber.Ctx) error {
	return c.JSON(middleware.ActorFrom(c))
}

func (s *AuthService) issue(c fiber.Ctx, actor models.Actor) error {
	token, err := s.jwtService.GenerateToken(actor)
	if err != nil {
		s.log.Error("Ошибка генерации токена", "user_id", actor.UserID, "error", err)
		return err
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  actor,
	})
}

// visitorID - стабильный идентификатор посетителя по email
func visitorID(email string) string {
	return "visitor-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}
