package cloudinary

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
)

// Допустимые стороны экземпляра
var allowedSides = map[string]bool{"front": true, "back": true}

// CloudinaryService выдает подписанные параметры для прямой загрузки изображений
type CloudinaryService struct {
	cfg config.CloudinaryConfig
	log *logger.Logger
	now func() time.Time
}

// UploadParams - параметры, которые клиент передает в Cloudinary вместе с файлом
type UploadParams struct {
	Timestamp    string `json:"timestamp"`
	Signature    string `json:"signature"`
	APIKey       string `json:"api_key"`
	CloudName    string `json:"cloud_name"`
	Folder       string `json:"folder"`
	PublicID     string `json:"public_id"`
	UploadPreset string `json:"upload_preset,omitempty"`
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg *config.Config, log *logger.Logger) *CloudinaryService {
	return &CloudinaryService{
		cfg: cfg.CloudinaryConfig,
		log: log.With("component", "cloudinary"),
		now: time.Now,
	}
}

// Configured сообщает, заданы ли ключи Cloudinary
func (s *CloudinaryService) Configured() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// Sign подписывает параметры загрузки изображения экземпляра
func (s *CloudinaryService) Sign(pieceID, side string) (*UploadParams, error) {
	if pieceID == "" {
		pieceID = uuid.New().String()
	}
	if !allowedSides[side] {
		side = "front"
	}

	params := UploadParams{
		Timestamp:    strconv.FormatInt(s.now().Unix(), 10),
		APIKey:       s.cfg.APIKey,
		CloudName:    s.cfg.CloudName,
		Folder:       s.cfg.UploadFolder + "/" + pieceID,
		PublicID:     side,
		UploadPreset: s.cfg.UploadPreset,
	}

	// Подписываются все параметры загрузки, кроме api_key, cloud_name и файла
	values := url.Values{}
	values.Set("timestamp", params.Timestamp)
	values.Set("folder", params.Folder)
	values.Set("public_id", params.PublicID)
	if params.UploadPreset != "" {
		values.Set("upload_preset", params.UploadPreset)
	}

	signature, err := api.SignParameters(values, s.cfg.APISecret)
	if err != nil {
		return nil, err
	}
	params.Signature = signature
	return &params, nil
}

// GenerateUploadParams создаёт параметры для загрузки изображений
func (s *CloudinaryService) GenerateUploadParams(c fiber.Ctx) error {
	if !s.Configured() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Carga de imágenes no configurada")
	}

	params, err := s.Sign(c.Query("piece_id"), c.Query("side", "front"))
	if err != nil {
		s.log.Error("Ошибка подписи параметров загрузки", "error", err)
		return err
	}
	return c.JSON(params)
}

// SetupRoutes настраивает маршрут параметров загрузки
func (s *CloudinaryService) SetupRoutes(router fiber.Router) {
	router.Get("/upload/params", s.GenerateUploadParams, middleware.RequireOwner())
}
