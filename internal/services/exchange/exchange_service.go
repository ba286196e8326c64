package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/metrics"
	"github.com/rajivgeraev/numisma-api/internal/models"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

// Ответы на контрпредложение по умолчанию
const (
	DefaultCounterAcceptedResponse = "Contraoferta aceptada."
	DefaultCounterRejectedResponse = "Contraoferta rechazada."
)

// Store - хранилище предложений обмена
type Store interface {
	CreateExchange(ctx context.Context, ex *models.ExchangeRequest) error
	GetExchange(ctx context.Context, id string) (*models.ExchangeRequest, error)
	// UpdateExchange сохраняет запись, только если ее версия в хранилище равна expectedVersion
	UpdateExchange(ctx context.Context, ex *models.ExchangeRequest, expectedVersion int) error
	ListExchanges(ctx context.Context) ([]models.ExchangeRequest, error)
	ListExchangesByStatus(ctx context.Context, statuses []models.ExchangeStatus) ([]models.ExchangeRequest, error)
}

// Notifier получает события об изменении предложений
type Notifier interface {
	NotifyExchange(kind models.ExchangeEventKind, ex models.ExchangeRequest)
}

type nopNotifier struct{}

func (nopNotifier) NotifyExchange(models.ExchangeEventKind, models.ExchangeRequest) {}

// CreateExchangeInput - данные для создания предложения обмена
type CreateExchangeInput struct {
	FromPieceID    string `json:"fromPieceId" validate:"required"`
	ToPieceID      string `json:"toPieceId" validate:"required,nefield=FromPieceID"`
	ToUserID       string `json:"toUserId"`
	RequesterName  string `json:"requesterName" validate:"required,max=120"`
	RequesterEmail string `json:"requesterEmail" validate:"required,email,max=254"`
	Message        string `json:"message" validate:"max=2000"`
}

func (in *CreateExchangeInput) normalize() {
	in.FromPieceID = strings.TrimSpace(in.FromPieceID)
	in.ToPieceID = strings.TrimSpace(in.ToPieceID)
	in.ToUserID = strings.TrimSpace(in.ToUserID)
	in.RequesterName = strings.TrimSpace(in.RequesterName)
	in.RequesterEmail = strings.TrimSpace(in.RequesterEmail)
	in.Message = strings.TrimSpace(in.Message)
}

// ExchangeService - движок переговоров об обмене
type ExchangeService struct {
	store    Store
	policy   Policy
	identity config.IdentityConfig
	notifier Notifier
	log      *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

// Option настраивает ExchangeService
type Option func(*ExchangeService)

// WithNotifier подключает доставку событий
func WithNotifier(n Notifier) Option {
	return func(s *ExchangeService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(s *ExchangeService) {
		s.now = now
	}
}

// NewExchangeService создает новый экземпляр ExchangeService
func NewExchangeService(store Store, cfg *config.Config, log *logger.Logger, opts ...Option) *ExchangeService {
	s := &ExchangeService{
		store:    store,
		policy:   Policy{Strict: cfg.Exchange.StrictTransitions},
		identity: cfg.Identity,
		notifier: nopNotifier{},
		log:      log.With("component", "exchange"),
		validate: utils.NewValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate проверяет входные данные предложения без обращения к хранилищу
func (s *ExchangeService) Validate(in CreateExchangeInput) error {
	in.normalize()
	return s.validateStruct(in)
}

// Create создает предложение обмена в статусе pending
func (s *ExchangeService) Create(ctx context.Context, actor models.Actor, in CreateExchangeInput) (*models.ExchangeRequest, error) {
	in.normalize()
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	fromUserID := actor.UserID
	if fromUserID == "" {
		fromUserID = s.identity.VisitorUserID
	}
	toUserID := in.ToUserID
	if toUserID == "" {
		toUserID = s.identity.OwnerUserID
	}

	now := s.now().UTC()
	ex := &models.ExchangeRequest{
		ID:             uuid.New().String(),
		FromUserID:     fromUserID,
		ToUserID:       toUserID,
		FromPieceID:    in.FromPieceID,
		ToPieceID:      in.ToPieceID,
		Status:         models.StatusPending,
		RequesterName:  in.RequesterName,
		RequesterEmail: in.RequesterEmail,
		Message:        models.StringPtr(in.Message),
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}

	if err := s.store.CreateExchange(ctx, ex); err != nil {
		s.log.Error("Ошибка создания предложения обмена", "error", err)
		return nil, err
	}

	s.log.Info("Создано предложение обмена",
		"exchange_id", ex.ID, "from_user_id", ex.FromUserID, "requester_email", ex.RequesterEmail)
	metrics.RecordTransition("create", string(ex.Status))
	s.notifier.NotifyExchange(models.EventExchangeCreated, ex.Clone())
	return ex, nil
}

// Get возвращает предложение обмена по ID
func (s *ExchangeService) Get(ctx context.Context, id string) (*models.ExchangeRequest, error) {
	return s.store.GetExchange(ctx, id)
}

// ListAll возвращает все предложения, новые первыми
func (s *ExchangeService) ListAll(ctx context.Context) ([]models.ExchangeRequest, error) {
	return s.store.ListExchanges(ctx)
}

// ListHistory возвращает завершенные предложения, недавно измененные первыми
func (s *ExchangeService) ListHistory(ctx context.Context) ([]models.ExchangeRequest, error) {
	return s.store.ListExchangesByStatus(ctx, models.TerminalStatuses)
}

// UpdateStatus принимает или отклоняет предложение напрямую (в т.ч. из countered)
func (s *ExchangeService) UpdateStatus(ctx context.Context, actor models.Actor, id string, status models.ExchangeStatus) (*models.ExchangeRequest, error) {
	var action Action
	switch status {
	case models.StatusAccepted:
		action = ActionAccept
	case models.StatusRejected:
		action = ActionReject
	default:
		return nil, apperr.Validation("status", "debe ser 'accepted' o 'rejected'")
	}

	return s.transition(ctx, actor, id, action, models.EventStatusUpdated, func(ex *models.ExchangeRequest, now time.Time) {
		ex.CompletedAt = &now
	})
}

// SendCounterOffer переводит предложение в countered с текстом контрпредложения
func (s *ExchangeService) SendCounterOffer(ctx context.Context, actor models.Actor, id string, counterOffer string) (*models.ExchangeRequest, error) {
	counterOffer = strings.TrimSpace(counterOffer)
	if counterOffer == "" {
		return nil, apperr.Validation("counterOffer", "es obligatoria")
	}

	return s.transition(ctx, actor, id, ActionCounter, models.EventCounterOffered, func(ex *models.ExchangeRequest, _ time.Time) {
		ex.CounterOffer = &counterOffer
		// countered не является завершенным статусом
		ex.CompletedAt = nil
	})
}

// RespondToCounter обрабатывает ответ на контрпредложение: accept, reject или new
func (s *ExchangeService) RespondToCounter(ctx context.Context, actor models.Actor, id string, rawAction string, message string) (*models.ExchangeRequest, error) {
	action, ok := counterAction(strings.TrimSpace(rawAction))
	if !ok {
		return nil, apperr.Validation("action", "debe ser 'accept', 'reject' o 'new'")
	}
	message = strings.TrimSpace(message)

	return s.transition(ctx, actor, id, action, models.EventCounterResponded, func(ex *models.ExchangeRequest, now time.Time) {
		switch action {
		case ActionCounterAccept:
			ex.CounterResponse = withDefault(message, DefaultCounterAcceptedResponse)
			ex.CompletedAt = &now
		case ActionCounterReject:
			ex.CounterResponse = withDefault(message, DefaultCounterRejectedResponse)
			ex.CompletedAt = &now
		case ActionCounterNew:
			if message != "" {
				ex.CounterOffer = &message
			}
			ex.CompletedAt = nil
		}
	})
}

// transition читает запись, вычисляет следующий статус и сохраняет ее одной условной записью
func (s *ExchangeService) transition(
	ctx context.Context,
	actor models.Actor,
	id string,
	action Action,
	kind models.ExchangeEventKind,
	mutate func(ex *models.ExchangeRequest, now time.Time),
) (*models.ExchangeRequest, error) {
	ex, err := s.store.GetExchange(ctx, id)
	if err != nil {
		return nil, err
	}

	from := ex.Status
	next, err := s.policy.Next(from, action)
	if err != nil {
		if apperr.IsConflict(err) {
			metrics.RecordRejectedTransition(string(action))
			s.log.Warn("Недопустимый переход", "exchange_id", id, "from", from, "action", action, "actor", actor.UserID)
		}
		return nil, err
	}

	now := s.now().UTC()
	expected := ex.Version
	ex.Status = next
	mutate(ex, now)
	ex.UpdatedAt = now
	ex.Version = expected + 1

	if err := s.store.UpdateExchange(ctx, ex, expected); err != nil {
		if apperr.IsConflict(err) {
			metrics.RecordRejectedTransition(string(action))
		}
		return nil, err
	}

	s.log.Info("Статус предложения обмена изменен",
		"exchange_id", id, "from", from, "to", next, "action", action, "actor", actor.UserID, "role", actor.Role)
	metrics.RecordTransition(string(action), string(next))
	s.notifier.NotifyExchange(kind, ex.Clone())
	return ex, nil
}

func (s *ExchangeService) validateStruct(in CreateExchangeInput) error {
	return utils.ValidateStruct(s.validate, in)
}

func withDefault(message, fallback string) *string {
	if message == "" {
		return &fallback
	}
	return &message
}
