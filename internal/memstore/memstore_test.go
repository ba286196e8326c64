package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

var base = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func piece(id string, offset time.Duration, top bool) models.Piece {
	return models.Piece{ID: id, Name: "Peso " + id, Type: models.PieceTypeCoin, IsTop: top,
		CreatedAt: base.Add(offset), UpdatedAt: base.Add(offset)}
}

func TestUpdateExchangeChecksVersion(t *testing.T) {
	ctx := context.Background()
	s := New()
	ex := &models.ExchangeRequest{ID: "ex-1", Status: models.StatusPending, Version: 1}
	require.NoError(t, s.CreateExchange(ctx, ex))

	stored, err := s.GetExchange(ctx, "ex-1")
	require.NoError(t, err)
	stored.Status = models.StatusAccepted
	stored.Version = 2
	require.NoError(t, s.UpdateExchange(ctx, stored, 1))

	stale := *stored
	stale.Version = 2
	err = s.UpdateExchange(ctx, &stale, 1)
	assert.True(t, apperr.IsConflict(err))

	err = s.UpdateExchange(ctx, &models.ExchangeRequest{ID: "nope"}, 1)
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetExchangeReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	msg := "hola"
	require.NoError(t, s.CreateExchange(ctx, &models.ExchangeRequest{ID: "ex-1", Message: &msg}))

	got, err := s.GetExchange(ctx, "ex-1")
	require.NoError(t, err)
	*got.Message = "cambiado"

	again, err := s.GetExchange(ctx, "ex-1")
	require.NoError(t, err)
	assert.Equal(t, "hola", *again.Message)
}

func TestListExchangesByStatusOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateExchange(ctx, &models.ExchangeRequest{ID: "a", Status: models.StatusAccepted, UpdatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.CreateExchange(ctx, &models.ExchangeRequest{ID: "b", Status: models.StatusPending, UpdatedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, s.CreateExchange(ctx, &models.ExchangeRequest{ID: "c", Status: models.StatusCounterRejected, UpdatedAt: base.Add(3 * time.Minute)}))

	out, err := s.ListExchangesByStatus(ctx, models.TerminalStatuses)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
}

func TestTopPieces(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreatePieces(ctx, []models.Piece{
		piece("p1", 0, true), piece("p2", time.Hour, false), piece("p3", 2*time.Hour, true),
	}))

	count, err := s.CountTopPieces(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	top, err := s.ListTopPieces(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p3", top[0].ID)

	err = s.CreatePieces(ctx, []models.Piece{piece("p4", 0, false), piece("p1", 0, false)})
	assert.True(t, apperr.IsConflict(err))
	_, err = s.GetPiece(ctx, "p4")
	assert.True(t, apperr.IsNotFound(err), "batch insert is all-or-nothing")
}

func TestDeletePieceCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreatePieces(ctx, []models.Piece{piece("p1", 0, false), piece("p2", 0, false), piece("p3", 0, false)}))
	require.NoError(t, s.CreateExchange(ctx, &models.ExchangeRequest{ID: "ex-1", FromPieceID: "p1", ToPieceID: "p2"}))
	require.NoError(t, s.CreateExchange(ctx, &models.ExchangeRequest{ID: "ex-2", FromPieceID: "p3", ToPieceID: "p2"}))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{ID: "c1", PieceID: "p1"}))

	require.NoError(t, s.DeletePiece(ctx, "p1"))

	_, err := s.GetExchange(ctx, "ex-1")
	assert.True(t, apperr.IsNotFound(err))
	_, err = s.GetExchange(ctx, "ex-2")
	assert.NoError(t, err)
	_, err = s.GetComment(ctx, "c1")
	assert.True(t, apperr.IsNotFound(err))

	all, err := s.ListExchanges(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.Equal(t, []string{"ex-2"}, s.exchangeOrder)
	assert.Equal(t, []string{"p2", "p3"}, s.pieceOrder)
	assert.Empty(t, s.commentOrder)

	assert.True(t, apperr.IsNotFound(s.DeletePiece(ctx, "p1")))
}

func TestDeleteCommentPrunesOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreatePieces(ctx, []models.Piece{piece("p1", 0, false)}))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{ID: "c1", PieceID: "p1"}))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{ID: "c2", PieceID: "p1"}))

	require.NoError(t, s.DeleteComment(ctx, "c1"))
	assert.Equal(t, []string{"c2"}, s.commentOrder)

	comments, err := s.ListComments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c2", comments[0].ID)
}

func TestCommentsRequirePiece(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.CreateComment(ctx, &models.Comment{ID: "c1", PieceID: "missing"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpsertProfile(t *testing.T) {
	ctx := context.Background()
	s := New()
	defaults := models.UserProfile{UserID: "user-1", Name: "Coleccionista"}

	_, err := s.GetProfile(ctx, "user-1")
	assert.True(t, apperr.IsNotFound(err))

	bio := "Monedas de plata"
	p, err := s.UpsertProfile(ctx, defaults, models.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Coleccionista", p.Name)
	assert.Equal(t, bio, p.Bio)
	require.NotNil(t, p.CreatedAt)

	name := "Ana"
	p, err = s.UpsertProfile(ctx, defaults, models.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, bio, p.Bio)
}
