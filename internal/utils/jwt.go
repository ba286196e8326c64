package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rajivgeraev/numisma-api/internal/models"
)

// Время жизни токена
const tokenTTL = 24 * time.Hour

// JWTService отвечает за создание и валидацию JWT токенов
type JWTService struct {
	secretKey string
	now       func() time.Time
}

// NewJWTService создаёт новый экземпляр JWTService
func NewJWTService(secretKey string) *JWTService {
	return &JWTService{secretKey: secretKey, now: time.Now}
}

// GenerateToken создаёт JWT токен для актора
func (s *JWTService) GenerateToken(actor models.Actor) (string, error) {
	if actor.UserID == "" {
		return "", errors.New("user_id is required")
	}
	claims := jwt.MapClaims{
		"user_id": actor.UserID,
		"role":    string(actor.Role),
		"name":    actor.Name,
		"email":   actor.Email,
		"exp":     s.now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken проверяет JWT токен
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	}, jwt.WithExpirationRequired())
}

// ExtractActor проверяет токен и достает из него актора
func (s *JWTService) ExtractActor(tokenString string) (models.Actor, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return models.Actor{}, errors.New("token has no user_id")
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	actor := models.Actor{UserID: userID, Name: name, Email: email, Role: models.Role(role)}
	if actor.Role != models.RoleOwner {
		actor.Role = models.RoleVisitor
	}
	return actor, nil
}
