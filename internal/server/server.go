package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/metrics"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
	"github.com/rajivgeraev/numisma-api/internal/services/auth"
	"github.com/rajivgeraev/numisma-api/internal/services/cloudinary"
	"github.com/rajivgeraev/numisma-api/internal/services/comment"
	"github.com/rajivgeraev/numisma-api/internal/services/exchange"
	"github.com/rajivgeraev/numisma-api/internal/services/piece"
	"github.com/rajivgeraev/numisma-api/internal/services/profile"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

// Storage - все хранилища приложения; реализуется db.Store и memstore.Store
type Storage interface {
	exchange.Store
	piece.Store
	comment.Store
	profile.Store
}

// Deps - зависимости HTTP-приложения
type Deps struct {
	Config     *config.Config
	Log        *logger.Logger
	Store      Storage
	JWTService *utils.JWTService
	Notifier   exchange.Notifier
}

// New собирает Fiber-приложение со всеми маршрутами
func New(deps Deps) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      "Numisma API",
		ErrorHandler: middleware.ErrorHandler(deps.Log),
	})

	app.Use(recover.New())
	// silent отключает access-лог, например в тестах
	if cfg.LogMode != "silent" {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))
	app.Use(middleware.Metrics())

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.JWTService))

	exchangeService := exchange.NewExchangeService(deps.Store, cfg, deps.Log, exchange.WithNotifier(deps.Notifier))
	pieceService := piece.NewPieceService(deps.Store, cfg, deps.Log)

	auth.NewAuthService(cfg, deps.JWTService, deps.Log).SetupRoutes(api)
	exchange.NewHandler(exchangeService, deps.Store).SetupRoutes(api)
	// Комментарии регистрируются раньше каталога: /pieces/:pieceId/comments
	// не должен попасть в /pieces/:id
	comment.NewCommentService(deps.Store, deps.Log).SetupRoutes(api)
	piece.NewHandler(pieceService).SetupRoutes(api)
	profile.NewProfileService(deps.Store, deps.Log).SetupRoutes(api)
	cloudinary.NewCloudinaryService(cfg, deps.Log).SetupRoutes(api)

	return app
}
