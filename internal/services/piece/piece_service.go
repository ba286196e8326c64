package piece

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/models"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

// Ограничения каталога
const (
	MaxTopPieces        = 5
	DefaultTopLimit     = 5
	DefaultSimilarLimit = 4
)

// Название: слова, затем номинал с символом валюты ("Peso Fuerte Argentino $1", "Morgan Dollar US$1")
var pieceNameRegex = regexp.MustCompile(
	`^[A-Za-zÀ-ÿ]+(\s[A-Za-zÀ-ÿ.]+)*\s+[^\s]*[^\w\s][^\s]*\d+[^\s]*$|^[A-Za-zÀ-ÿ]+(\s[A-Za-zÀ-ÿ.]+)*\s+\d+[^\w\s][^\s]*$`)

const pieceNameHint = `El nombre debe incluir el nombre de la pieza y su denominación con símbolo de moneda. ` +
	`Formato: "Nombre Denominación" (Ej: "Peso Fuerte Argentino $1", "Morgan Dollar US$1")`

// Store - хранилище экземпляров
type Store interface {
	ListPieces(ctx context.Context) ([]models.Piece, error)
	ListTopPieces(ctx context.Context, limit int) ([]models.Piece, error)
	CountTopPieces(ctx context.Context) (int, error)
	GetPiece(ctx context.Context, id string) (*models.Piece, error)
	CreatePieces(ctx context.Context, pieces []models.Piece) error
	UpdatePiece(ctx context.Context, p *models.Piece) error
	DeletePiece(ctx context.Context, id string) error
}

// CreatePieceInput - данные нового экземпляра
type CreatePieceInput struct {
	Name              string                   `json:"name" validate:"required,max=200"`
	Type              models.PieceType         `json:"type" validate:"required,piece_type"`
	Country           string                   `json:"country" validate:"required,max=120"`
	Year              int                      `json:"year" validate:"gte=-3000,lte=2100"`
	ConservationState models.ConservationState `json:"conservationState" validate:"required,conservation"`
	ImageURL          string                   `json:"imageUrl" validate:"required,max=2048"`
	ImageURLBack      string                   `json:"imageUrlBack" validate:"max=2048"`
	Description       string                   `json:"description" validate:"max=4000"`
}

// PieceService управляет каталогом коллекции
type PieceService struct {
	store    Store
	ownerID  string
	log      *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewPieceService создает новый экземпляр PieceService
func NewPieceService(store Store, cfg *config.Config, log *logger.Logger) *PieceService {
	return &PieceService{
		store:    store,
		ownerID:  cfg.Identity.OwnerUserID,
		log:      log.With("component", "piece"),
		validate: utils.NewValidator(),
		now:      time.Now,
	}
}

// List возвращает каталог, предварительно досеивая недостающие экземпляры по умолчанию
func (s *PieceService) List(ctx context.Context) ([]models.Piece, error) {
	if err := s.seedDefaults(ctx); err != nil {
		return nil, err
	}
	return s.store.ListPieces(ctx)
}

func (s *PieceService) seedDefaults(ctx context.Context) error {
	existing, err := s.store.ListPieces(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	now := s.now().UTC()
	var missing []models.Piece
	for _, p := range defaultPieces {
		if names[p.Name] {
			continue
		}
		p.ID = uuid.New().String()
		p.UserID = s.ownerID
		p.CreatedAt = now
		p.UpdatedAt = now
		missing = append(missing, p)
	}
	if len(missing) == 0 {
		return nil
	}

	if err := s.store.CreatePieces(ctx, missing); err != nil {
		return err
	}
	s.log.Info("Добавлены экземпляры по умолчанию", "count", len(missing))
	return nil
}

// Top возвращает избранные экземпляры
func (s *PieceService) Top(ctx context.Context, limit int) ([]models.Piece, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return s.store.ListTopPieces(ctx, limit)
}

// Get возвращает экземпляр по ID
func (s *PieceService) Get(ctx context.Context, id string) (*models.Piece, error) {
	return s.store.GetPiece(ctx, id)
}

// Similar подбирает похожие экземпляры по стране, типу и году
func (s *PieceService) Similar(ctx context.Context, id string, limit int) ([]models.Piece, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	piece, err := s.store.GetPiece(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListPieces(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		piece models.Piece
		score int
	}
	candidates := make([]scored, 0, len(all))
	for _, p := range all {
		if p.ID == piece.ID {
			continue
		}
		candidates = append(candidates, scored{piece: p, score: similarity(*piece, p)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	out := make([]models.Piece, 0, limit)
	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].piece)
	}
	return out, nil
}

func similarity(a, b models.Piece) int {
	score := 0
	if a.Country == b.Country {
		score += 3
	}
	if a.Type == b.Type {
		score += 2
	}
	diff := math.Abs(float64(a.Year - b.Year))
	if diff <= 30 {
		score += 2
	}
	if diff <= 10 {
		score++
	}
	return score
}

// Create добавляет экземпляр в коллекцию; новый экземпляр недоступен для обмена
func (s *PieceService) Create(ctx context.Context, actor models.Actor, in CreatePieceInput) (*models.Piece, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Country = strings.TrimSpace(in.Country)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.ImageURLBack = strings.TrimSpace(in.ImageURLBack)
	in.Description = strings.TrimSpace(in.Description)

	if err := utils.ValidateStruct(s.validate, in); err != nil {
		return nil, err
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	userID := actor.UserID
	if userID == "" {
		userID = s.ownerID
	}
	now := s.now().UTC()
	p := models.Piece{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Type:              in.Type,
		Country:           in.Country,
		Year:              in.Year,
		ConservationState: in.ConservationState,
		ImageURL:          in.ImageURL,
		ImageURLBack:      in.ImageURLBack,
		Description:       in.Description,
		UserID:            userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreatePieces(ctx, []models.Piece{p}); err != nil {
		return nil, err
	}

	s.log.Info("Экземпляр добавлен", "piece_id", p.ID, "name", p.Name)
	return &p, nil
}

// Update частично обновляет экземпляр
func (s *PieceService) Update(ctx context.Context, id string, upd models.PieceUpdate) (*models.Piece, error) {
	p, err := s.store.GetPiece(ctx, id)
	if err != nil {
		return nil, err
	}

	trim(upd.Name)
	trim(upd.Country)
	trim(upd.ImageURL)
	trim(upd.ImageURLBack)
	trim(upd.Description)

	if upd.Name != nil {
		if err := validateName(*upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, apperr.Validation("type", "debe ser 'Moneda' o 'Billete'")
	}
	if upd.ConservationState != nil && !upd.ConservationState.Valid() {
		return nil, apperr.Validation("conservationState", "estado de conservación inválido")
	}
	// Флаг избранного меняется только через SetTop с проверкой лимита
	upd.IsTop = nil

	upd.Apply(p)
	return s.save(ctx, p)
}

// SetTop добавляет экземпляр в избранное или убирает из него
func (s *PieceService) SetTop(ctx context.Context, id string, isTop bool) (*models.Piece, error) {
	p, err := s.store.GetPiece(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsTop == isTop {
		return p, nil
	}

	if isTop {
		count, err := s.store.CountTopPieces(ctx)
		if err != nil {
			return nil, err
		}
		if count >= MaxTopPieces {
			return nil, apperr.Validation("isTop", "Solo se pueden seleccionar hasta 5 piezas para el Top Collection")
		}
	}

	p.IsTop = isTop
	return s.save(ctx, p)
}

// ToggleExchange открывает или закрывает экземпляр для обмена
func (s *PieceService) ToggleExchange(ctx context.Context, id string, available bool) (*models.Piece, error) {
	p, err := s.store.GetPiece(ctx, id)
	if err != nil {
		return nil, err
	}
	p.AvailableForExchange = available
	return s.save(ctx, p)
}

// Delete удаляет экземпляр вместе со связанными обменами и комментариями
func (s *PieceService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePiece(ctx, id); err != nil {
		return err
	}
	s.log.Info("Экземпляр удален", "piece_id", id)
	return nil
}

func (s *PieceService) save(ctx context.Context, p *models.Piece) (*models.Piece, error) {
	p.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePiece(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func validateName(name string) error {
	if !pieceNameRegex.MatchString(strings.TrimSpace(name)) {
		return apperr.Validation("name", pieceNameHint)
	}
	return nil
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
