package piece

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/memstore"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

var owner = models.Actor{UserID: "user-1", Role: models.RoleOwner}

func newTestService(t *testing.T) (*PieceService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	cfg := &config.Config{Identity: config.IdentityConfig{OwnerUserID: "user-1", VisitorUserID: "user-visitor"}}
	svc := NewPieceService(store, cfg, logger.Nop())

	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	return svc, store
}

func validPiece() CreatePieceInput {
	return CreatePieceInput{
		Name:              "Morgan Dollar US$1",
		Type:              models.PieceTypeCoin,
		Country:           "Estados Unidos",
		Year:              1921,
		ConservationState: models.ConservationVeryGood,
		ImageURL:          "https://example.com/morgan.jpg",
	}
}

func TestListSeedsDefaultsOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, len(defaultPieces))
	for _, p := range first {
		assert.Equal(t, "user-1", p.UserID)
		assert.False(t, p.AvailableForExchange)
	}

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, len(defaultPieces))
}

func TestCreateValidatesName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Peso Fuerte Argentino $1", "Morgan Dollar US$1", "Peso 1$"} {
		in := validPiece()
		in.Name = name
		_, err := svc.Create(ctx, owner, in)
		assert.NoError(t, err, name)
	}

	for _, name := range []string{"Peso", "Morgan Dollar 1", "$1"} {
		in := validPiece()
		in.Name = name
		_, err := svc.Create(ctx, owner, in)
		assert.True(t, apperr.IsValidation(err), name)
	}
}

func TestCreateRejectsUnknownEnums(t *testing.T) {
	svc, _ := newTestService(t)

	in := validPiece()
	in.Type = "Medalla"
	_, err := svc.Create(context.Background(), owner, in)
	assert.True(t, apperr.IsValidation(err))

	in = validPiece()
	in.ConservationState = "Nuevo"
	_, err = svc.Create(context.Background(), owner, in)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateIsNotAvailableForExchange(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(context.Background(), owner, validPiece())
	require.NoError(t, err)
	assert.False(t, p.AvailableForExchange)
	assert.False(t, p.IsTop)
	assert.Equal(t, "user-1", p.UserID)
}

func TestSetTopLimit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ids := make([]string, 0, MaxTopPieces+1)
	for i := 0; i <= MaxTopPieces; i++ {
		p, err := svc.Create(ctx, owner, validPiece())
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	for _, id := range ids[:MaxTopPieces] {
		_, err := svc.SetTop(ctx, id, true)
		require.NoError(t, err)
	}

	// Повторная отметка уже избранного экземпляра не упирается в лимит
	_, err := svc.SetTop(ctx, ids[0], true)
	require.NoError(t, err)

	_, err = svc.SetTop(ctx, ids[MaxTopPieces], true)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.SetTop(ctx, ids[0], false)
	require.NoError(t, err)
	_, err = svc.SetTop(ctx, ids[MaxTopPieces], true)
	assert.NoError(t, err)

	top, err := svc.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, MaxTopPieces)
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, validPiece())
	require.NoError(t, err)

	country := "  México "
	top := true
	updated, err := svc.Update(ctx, p.ID, models.PieceUpdate{Country: &country, IsTop: &top})
	require.NoError(t, err)
	assert.Equal(t, "México", updated.Country)
	assert.Equal(t, "Morgan Dollar US$1", updated.Name)
	assert.False(t, updated.IsTop)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	bad := "sin denominacion"
	_, err = svc.Update(ctx, p.ID, models.PieceUpdate{Name: &bad})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Update(ctx, "missing", models.PieceUpdate{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestSimilarScoring(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreatePieces(ctx, []models.Piece{
		{ID: "base", Country: "Chile", Type: models.PieceTypeCoin, Year: 1930, CreatedAt: now},
		{ID: "best", Country: "Chile", Type: models.PieceTypeCoin, Year: 1935, CreatedAt: now},
		{ID: "country", Country: "Chile", Type: models.PieceTypeBanknote, Year: 1990, CreatedAt: now},
		{ID: "era", Country: "Perú", Type: models.PieceTypeCoin, Year: 1925, CreatedAt: now},
		{ID: "none", Country: "Japón", Type: models.PieceTypeBanknote, Year: 2020, CreatedAt: now},
	}))

	similar, err := svc.Similar(ctx, "base", 3)
	require.NoError(t, err)
	require.Len(t, similar, 3)
	assert.Equal(t, "best", similar[0].ID)
	assert.Equal(t, "era", similar[1].ID)
	assert.Equal(t, "country", similar[2].ID)

	_, err = svc.Similar(ctx, "missing", 4)
	assert.True(t, apperr.IsNotFound(err))
}

func TestToggleExchangeAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, validPiece())
	require.NoError(t, err)

	p, err = svc.ToggleExchange(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, p.AvailableForExchange)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(svc.Delete(ctx, p.ID)))
}
