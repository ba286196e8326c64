package models

import (
	"time"
)

// ExchangeStatus - статус предложения обмена
type ExchangeStatus string

const (
	StatusPending         ExchangeStatus = "pending"
	StatusAccepted        ExchangeStatus = "accepted"
	StatusRejected        ExchangeStatus = "rejected"
	StatusCountered       ExchangeStatus = "countered"
	StatusCounterAccepted ExchangeStatus = "counter_accepted"
	StatusCounterRejected ExchangeStatus = "counter_rejected"
)

// AllStatuses - все допустимые статусы
var AllStatuses = []ExchangeStatus{
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusCountered,
	StatusCounterAccepted,
	StatusCounterRejected,
}

// TerminalStatuses - статусы, после которых переговоры завершены
var TerminalStatuses = []ExchangeStatus{
	StatusAccepted,
	StatusRejected,
	StatusCounterAccepted,
	StatusCounterRejected,
}

// Valid проверяет, что статус входит в перечисление
func (s ExchangeStatus) Valid() bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal сообщает, завершены ли переговоры
func (s ExchangeStatus) Terminal() bool {
	for _, st := range TerminalStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// ParseExchangeStatus преобразует строку в статус
func ParseExchangeStatus(value string) (ExchangeStatus, bool) {
	s := ExchangeStatus(value)
	return s, s.Valid()
}

// ExchangeRequest представляет предложение обмена посетителя владельцу коллекции
type ExchangeRequest struct {
	ID              string         `json:"id"`
	FromUserID      string         `json:"fromUserId"`
	ToUserID        string         `json:"toUserId"`
	FromPieceID     string         `json:"fromPieceId"`
	ToPieceID       string         `json:"toPieceId"`
	Status          ExchangeStatus `json:"status"`
	RequesterName   string         `json:"requesterName"`
	RequesterEmail  string         `json:"requesterEmail"`
	Message         *string        `json:"message,omitempty"`
	CounterOffer    *string        `json:"counterOffer,omitempty"`
	CounterResponse *string        `json:"counterResponse,omitempty"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Version         int            `json:"version"`
}

// Clone возвращает копию записи без общих указателей
func (e ExchangeRequest) Clone() ExchangeRequest {
	out := e
	out.Message = cloneString(e.Message)
	out.CounterOffer = cloneString(e.CounterOffer)
	out.CounterResponse = cloneString(e.CounterResponse)
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr возвращает указатель на непустую строку или nil
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ExchangeEventKind - тип события жизненного цикла обмена
type ExchangeEventKind string

const (
	EventExchangeCreated  ExchangeEventKind = "exchange_created"
	EventStatusUpdated    ExchangeEventKind = "exchange_status_updated"
	EventCounterOffered   ExchangeEventKind = "exchange_countered"
	EventCounterResponded ExchangeEventKind = "exchange_counter_responded"
)
