package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Поддерживаемые хранилища
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config структура конфигурации
type Config struct {
	Port             string
	WSPort           string
	AppEnv           string
	LogMode          string
	StorageDriver    string
	JWTSecret        string
	TelegramBotToken string
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	CloudinaryConfig CloudinaryConfig
	Identity         IdentityConfig
	Exchange         ExchangeConfig
	CORSAllowOrigins []string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	UploadFolder string
}

// IdentityConfig описывает единственного владельца коллекции и анонимного посетителя
type IdentityConfig struct {
	OwnerUserID       string
	VisitorUserID     string
	OwnerEmail        string
	OwnerPasswordHash string
}

// ExchangeConfig - настройки движка обменов
type ExchangeConfig struct {
	// StrictTransitions включает отказ (409) на переходы, которых нет в таблице
	StrictTransitions bool
}

// LoadConfig загружает переменные из .env
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "numisma_user"),
		Password: getEnv("PGPASSWORD", "numisma_pass"),
		Name:     getEnv("PGDATABASE", "numisma"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// DATABASE_URL имеет приоритет над PG* переменными
	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode))

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		WSPort:           getEnv("WS_PORT", "3001"),
		AppEnv:           getEnv("APP_ENV", "production"),
		LogMode:          getEnv("LOG_MODE", "prod"),
		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		DatabaseURL:      dbURL,
		DatabaseConfig:   dbConfig,
		CloudinaryConfig: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "numisma_pieces"),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "pieces"),
		},
		Identity: IdentityConfig{
			OwnerUserID:       getEnv("OWNER_USER_ID", "user-1"),
			VisitorUserID:     getEnv("VISITOR_USER_ID", "user-visitor"),
			OwnerEmail:        strings.ToLower(getEnv("OWNER_EMAIL", "admin@coleccion.com")),
			OwnerPasswordHash: getEnv("OWNER_PASSWORD_HASH", ""),
		},
		Exchange: ExchangeConfig{
			StrictTransitions: getEnvBool("EXCHANGE_STRICT_TRANSITIONS", false),
		},
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment сообщает, запущено ли приложение локально
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.StorageDriver != StorageDriverPostgres && c.StorageDriver != StorageDriverMemory {
		return fmt.Errorf("неизвестный STORAGE_DRIVER: %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("не задана обязательная переменная окружения JWT_SECRET")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.Identity.OwnerUserID == "" || c.Identity.VisitorUserID == "" {
		return errors.New("OWNER_USER_ID и VISITOR_USER_ID не могут быть пустыми")
	}
	if c.Identity.OwnerUserID == c.Identity.VisitorUserID {
		return errors.New("OWNER_USER_ID и VISITOR_USER_ID должны различаться")
	}
	return nil
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		log.Printf("⚠️ некорректное значение %s=%q, используем %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
