package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rajivgeraev/numisma-api/internal/utils"
)

// Handler принимает WebSocket-подключения. Токен передается в query-параметре,
// так как браузерный WebSocket не умеет задавать заголовки.
type Handler struct {
	manager    *Manager
	jwtService *utils.JWTService
	upgrader   websocket.Upgrader
}

// NewHandler создает обработчик подключений
func NewHandler(manager *Manager, jwtService *utils.JWTService, allowedOrigins []string) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	allowAll := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = true
	}

	return &Handler{
		manager:    manager,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || origins[origin]
			},
		},
	}
}

// ServeHTTP проверяет токен и переводит соединение в WebSocket
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusUnauthorized)
		return
	}

	actor, err := h.jwtService.ExtractActor(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже записал ответ с ошибкой
		h.manager.log.Debug("Ошибка апгрейда WebSocket", "error", err)
		return
	}

	NewClient(actor.UserID, conn, h.manager).Start()
}
