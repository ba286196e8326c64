package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/memstore"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
	"github.com/rajivgeraev/numisma-api/internal/models"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

func TestGetReturnsDefaultProfile(t *testing.T) {
	svc := NewProfileService(memstore.New(), logger.Nop())

	p, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, DefaultName, p.Name)
	assert.Empty(t, p.PhotoURL)
	assert.Empty(t, p.Bio)
	assert.Nil(t, p.CreatedAt)
}

func TestUpsertIsPartial(t *testing.T) {
	svc := NewProfileService(memstore.New(), logger.Nop())
	ctx := context.Background()

	photo := "https://example.com/me.jpg"
	p, err := svc.Upsert(ctx, "user-1", models.ProfileUpdate{PhotoURL: &photo})
	require.NoError(t, err)
	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, photo, p.PhotoURL)

	name := " Juan Carlos "
	p, err = svc.Upsert(ctx, "user-1", models.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Juan Carlos", p.Name)
	assert.Equal(t, photo, p.PhotoURL)

	blank := " "
	_, err = svc.Upsert(ctx, "user-1", models.ProfileUpdate{Name: &blank})
	assert.True(t, apperr.IsValidation(err))
}

func TestProfileRoutes(t *testing.T) {
	svc := NewProfileService(memstore.New(), logger.Nop())
	jwtService := utils.NewJWTService("secret")

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger.Nop())})
	app.Use(middleware.AuthMiddleware(jwtService))
	svc.SetupRoutes(app.Group("/api"))

	put := func(token string) int {
		req := httptest.NewRequest("PUT", "/api/profile/user-1", bytes.NewBufferString(`{"bio":"Numismático"}`))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusForbidden, put(""))

	token, err := jwtService.GenerateToken(models.Actor{UserID: "user-1", Role: models.RoleOwner})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, put(token))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/profile/user-1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Numismático", got.Bio)
	assert.Equal(t, DefaultName, got.Name)
}
