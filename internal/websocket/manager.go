package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/metrics"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// Manager представляет центральный менеджер для всех WebSocket соединений
type Manager struct {
	clients      map[uuid.UUID]*Client
	clientsMutex sync.RWMutex
	userClients  map[string]map[uuid.UUID]bool // userID -> map[clientID]bool
	userMutex    sync.RWMutex
	log          *logger.Logger
	ctx          context.Context
	cancel       context.CancelFunc
}

// EventType определяет тип события WebSocket
type EventType string

const (
	EventConnected EventType = "connected"
	EventPong      EventType = "pong"
	EventPing      EventType = "ping"
)

// Event представляет структуру сообщения для WebSocket
type Event struct {
	Type      EventType               `json:"type"`
	UserID    string                  `json:"user_id,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
	Exchange  *models.ExchangeRequest `json:"exchange,omitempty"`
}

// NewManager создает новый экземпляр Manager
func NewManager(log *logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[string]map[uuid.UUID]bool),
		log:         log.With("component", "websocket"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// AddClient регистрирует нового клиента
func (m *Manager) AddClient(client *Client) {
	m.clientsMutex.Lock()
	m.clients[client.ID] = client
	m.clientsMutex.Unlock()

	// Связываем клиент с пользователем
	m.userMutex.Lock()
	if _, exists := m.userClients[client.UserID]; !exists {
		m.userClients[client.UserID] = make(map[uuid.UUID]bool)
	}
	m.userClients[client.UserID][client.ID] = true
	m.userMutex.Unlock()

	metrics.WebsocketConnected(1)
	m.log.Debug("WebSocket клиент подключен", "client_id", client.ID, "user_id", client.UserID)
}

// RemoveClient удаляет клиента
func (m *Manager) RemoveClient(clientID uuid.UUID) {
	m.clientsMutex.Lock()
	client, exists := m.clients[clientID]
	if exists {
		delete(m.clients, clientID)
	}
	m.clientsMutex.Unlock()

	if !exists {
		return
	}

	userID := client.UserID

	// Удаляем клиент из связи с пользователем
	m.userMutex.Lock()
	if clients, ok := m.userClients[userID]; ok {
		delete(clients, clientID)
		// Если это был последний клиент пользователя, удаляем запись пользователя
		if len(clients) == 0 {
			delete(m.userClients, userID)
		}
	}
	m.userMutex.Unlock()

	metrics.WebsocketConnected(-1)
	m.log.Debug("WebSocket клиент отключен", "client_id", clientID, "user_id", userID)
}

// ConnectedClients возвращает количество соединений пользователя
func (m *Manager) ConnectedClients(userID string) int {
	m.userMutex.RLock()
	defer m.userMutex.RUnlock()
	return len(m.userClients[userID])
}

// SendToUser отправляет сообщение всем соединениям конкретного пользователя
func (m *Manager) SendToUser(userID string, event Event) {
	if userID == "" {
		return
	}

	m.userMutex.RLock()
	clientIDs := make([]uuid.UUID, 0, len(m.userClients[userID]))
	for id := range m.userClients[userID] {
		clientIDs = append(clientIDs, id)
	}
	m.userMutex.RUnlock()

	// Пользователь не онлайн, событие уже сохранено в хранилище
	if len(clientIDs) == 0 {
		return
	}

	// Устанавливаем время события, если не установлено
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.UserID = userID

	eventJSON, err := json.Marshal(event)
	if err != nil {
		m.log.Error("Ошибка сериализации события", "error", err)
		return
	}

	for _, clientID := range clientIDs {
		m.clientsMutex.RLock()
		client, exists := m.clients[clientID]
		m.clientsMutex.RUnlock()

		if !exists {
			continue
		}

		select {
		case client.send <- eventJSON:
			// Сообщение успешно добавлено в очередь отправки
		default:
			// Канал заполнен, клиент слишком медленный - закрываем соединение
			m.log.Warn("Очередь клиента переполнена, соединение закрыто", "client_id", client.ID)
			client.conn.Close()
			m.RemoveClient(client.ID)
		}
	}
}

// NotifyExchange доставляет изменение предложения обмена обеим сторонам
func (m *Manager) NotifyExchange(kind models.ExchangeEventKind, ex models.ExchangeRequest) {
	recipients := []string{ex.FromUserID}
	if ex.ToUserID != ex.FromUserID {
		recipients = append(recipients, ex.ToUserID)
	}

	for _, userID := range recipients {
		payload := ex.Clone()
		m.SendToUser(userID, Event{
			Type:      EventType(kind),
			Timestamp: ex.UpdatedAt,
			Exchange:  &payload,
		})
	}
}

// Shutdown корректно завершает работу менеджера WebSocket
func (m *Manager) Shutdown() {
	m.cancel()

	m.clientsMutex.Lock()
	for _, client := range m.clients {
		client.conn.Close()
	}
	closed := len(m.clients)
	m.clients = make(map[uuid.UUID]*Client)
	m.clientsMutex.Unlock()

	m.userMutex.Lock()
	m.userClients = make(map[string]map[uuid.UUID]bool)
	m.userMutex.Unlock()

	metrics.WebsocketConnected(-closed)
}
