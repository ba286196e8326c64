// Package memstore - хранилище в памяти процесса. Используется в тестах и
// при STORAGE_DRIVER=memory для локальной разработки без Postgres.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// Store хранит все сущности в картах под одним мьютексом
type Store struct {
	mu sync.RWMutex

	exchanges     map[string]models.ExchangeRequest
	exchangeOrder []string

	pieces     map[string]models.Piece
	pieceOrder []string

	comments     map[string]models.Comment
	commentOrder []string

	profiles map[string]models.UserProfile

	now func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		exchanges: make(map[string]models.ExchangeRequest),
		pieces:    make(map[string]models.Piece),
		comments:  make(map[string]models.Comment),
		profiles:  make(map[string]models.UserProfile),
		now:       time.Now,
	}
}

// ----- Предложения обмена -----

func (s *Store) CreateExchange(_ context.Context, ex *models.ExchangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.exchanges[ex.ID]; exists {
		return apperr.Conflict("solicitud %s ya existe", ex.ID)
	}
	s.exchanges[ex.ID] = ex.Clone()
	s.exchangeOrder = append(s.exchangeOrder, ex.ID)
	return nil
}

func (s *Store) GetExchange(_ context.Context, id string) (*models.ExchangeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ex, ok := s.exchanges[id]
	if !ok {
		return nil, apperr.NotFound("Solicitud", id)
	}
	out := ex.Clone()
	return &out, nil
}

func (s *Store) UpdateExchange(_ context.Context, ex *models.ExchangeRequest, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.exchanges[ex.ID]
	if !ok {
		return apperr.NotFound("Solicitud", ex.ID)
	}
	if current.Version != expectedVersion {
		return apperr.Conflict("la solicitud %s fue modificada por otra operación", ex.ID)
	}
	s.exchanges[ex.ID] = ex.Clone()
	return nil
}

func (s *Store) ListExchanges(_ context.Context) ([]models.ExchangeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.exchangesLocked(nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListExchangesByStatus(_ context.Context, statuses []models.ExchangeStatus) ([]models.ExchangeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[models.ExchangeStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	out := s.exchangesLocked(func(ex models.ExchangeRequest) bool { return want[ex.Status] })
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// exchangesLocked возвращает копии записей, последние вставленные первыми
func (s *Store) exchangesLocked(keep func(models.ExchangeRequest) bool) []models.ExchangeRequest {
	out := make([]models.ExchangeRequest, 0, len(s.exchangeOrder))
	for i := len(s.exchangeOrder) - 1; i >= 0; i-- {
		ex, ok := s.exchanges[s.exchangeOrder[i]]
		if !ok || (keep != nil && !keep(ex)) {
			continue
		}
		out = append(out, ex.Clone())
	}
	return out
}

// ----- Экземпляры коллекции -----

func (s *Store) ListPieces(_ context.Context) ([]models.Piece, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.piecesLocked(nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListTopPieces(_ context.Context, limit int) ([]models.Piece, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.piecesLocked(func(p models.Piece) bool { return p.IsTop })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountTopPieces(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.pieces {
		if p.IsTop {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetPiece(_ context.Context, id string) (*models.Piece, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pieces[id]
	if !ok {
		return nil, apperr.NotFound("Pieza", id)
	}
	return &p, nil
}

func (s *Store) CreatePieces(_ context.Context, pieces []models.Piece) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range pieces {
		if _, exists := s.pieces[p.ID]; exists {
			return apperr.Conflict("pieza %s ya existe", p.ID)
		}
	}
	for _, p := range pieces {
		s.pieces[p.ID] = p
		s.pieceOrder = append(s.pieceOrder, p.ID)
	}
	return nil
}

func (s *Store) UpdatePiece(_ context.Context, p *models.Piece) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pieces[p.ID]; !ok {
		return apperr.NotFound("Pieza", p.ID)
	}
	s.pieces[p.ID] = *p
	return nil
}

// DeletePiece удаляет экземпляр вместе с его предложениями обмена и комментариями
func (s *Store) DeletePiece(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pieces[id]; !ok {
		return apperr.NotFound("Pieza", id)
	}
	for exID, ex := range s.exchanges {
		if ex.FromPieceID == id || ex.ToPieceID == id {
			delete(s.exchanges, exID)
		}
	}
	for cID, c := range s.comments {
		if c.PieceID == id {
			delete(s.comments, cID)
		}
	}
	delete(s.pieces, id)

	s.exchangeOrder = pruneOrder(s.exchangeOrder, s.exchanges)
	s.commentOrder = pruneOrder(s.commentOrder, s.comments)
	s.pieceOrder = pruneOrder(s.pieceOrder, s.pieces)
	return nil
}

// pruneOrder убирает из порядка вставки id удаленных записей
func pruneOrder[T any](order []string, live map[string]T) []string {
	return slices.DeleteFunc(order, func(id string) bool {
		_, ok := live[id]
		return !ok
	})
}

func (s *Store) piecesLocked(keep func(models.Piece) bool) []models.Piece {
	out := make([]models.Piece, 0, len(s.pieceOrder))
	for i := len(s.pieceOrder) - 1; i >= 0; i-- {
		p, ok := s.pieces[s.pieceOrder[i]]
		if !ok || (keep != nil && !keep(p)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ----- Комментарии -----

func (s *Store) ListComments(_ context.Context, pieceID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Comment, 0)
	for i := len(s.commentOrder) - 1; i >= 0; i-- {
		c, ok := s.comments[s.commentOrder[i]]
		if ok && c.PieceID == pieceID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pieces[c.PieceID]; !ok {
		return apperr.NotFound("Pieza", c.PieceID)
	}
	s.comments[c.ID] = *c
	s.commentOrder = append(s.commentOrder, c.ID)
	return nil
}

func (s *Store) GetComment(_ context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comentario", id)
	}
	return &c, nil
}

func (s *Store) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return apperr.NotFound("Comentario", id)
	}
	delete(s.comments, id)
	s.commentOrder = pruneOrder(s.commentOrder, s.comments)
	return nil
}

// ----- Профили -----

func (s *Store) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("Perfil", userID)
	}
	return &p, nil
}

// UpsertProfile создает профиль из defaults с примененными изменениями или обновляет существующий
func (s *Store) UpsertProfile(_ context.Context, defaults models.UserProfile, upd models.ProfileUpdate) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	p, ok := s.profiles[defaults.UserID]
	if !ok {
		p = defaults
		p.CreatedAt = &now
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.PhotoURL != nil {
		p.PhotoURL = *upd.PhotoURL
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	p.UpdatedAt = &now
	s.profiles[p.UserID] = p
	return &p, nil
}
