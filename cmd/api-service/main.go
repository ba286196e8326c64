package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/db"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/memstore"
	"github.com/rajivgeraev/numisma-api/internal/server"
	"github.com/rajivgeraev/numisma-api/internal/utils"
	"github.com/rajivgeraev/numisma-api/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("❌ Ошибка инициализации логгера: %v", err)
	}
	defer appLog.Sync()

	// Выбираем хранилище
	var store server.Storage
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		appLog.Warn("Используется хранилище в памяти, данные не сохраняются между перезапусками")
		store = memstore.New()
	default:
		if err := db.Migrate(cfg.DatabaseURL, appLog); err != nil {
			appLog.Fatal("Ошибка миграции базы данных", "error", err)
		}
		pool, err := db.InitDB(cfg, appLog)
		if err != nil {
			appLog.Fatal("Ошибка при инициализации базы данных", "error", err)
		}
		defer db.CloseDB(pool)
		store = db.NewStore(pool)
	}

	jwtService := utils.NewJWTService(cfg.JWTSecret)
	wsManager := websocket.NewManager(appLog)

	app := server.New(server.Deps{
		Config:     cfg,
		Log:        appLog,
		Store:      store,
		JWTService: jwtService,
		Notifier:   wsManager,
	})

	// WebSocket работает на отдельном net/http листенере
	mux := http.NewServeMux()
	mux.Handle("/ws", websocket.NewHandler(wsManager, jwtService, cfg.CORSAllowOrigins))
	wsServer := &http.Server{
		Addr:              ":" + cfg.WSPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Info("WebSocket сервер запущен", "port", cfg.WSPort)
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Ошибка WebSocket сервера", "error", err)
		}
	}()

	go func() {
		appLog.Info("✅ Numisma API запущен", "port", cfg.Port, "storage", cfg.StorageDriver,
			"strict_transitions", cfg.Exchange.StrictTransitions)
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Fatal("Ошибка HTTP сервера", "error", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Завершение работы")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wsManager.Shutdown()
	if err := wsServer.Shutdown(ctx); err != nil {
		appLog.Error("Ошибка остановки WebSocket сервера", "error", err)
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLog.Error("Ошибка остановки HTTP сервера", "error", err)
	}
}
