package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/middleware"
	"github.com/rajivgeraev/numisma-api/internal/models"
	"github.com/rajivgeraev/numisma-api/internal/utils"
)

type loginResponse struct {
	Token string       `json:"token"`
	User  models.Actor `json:"user"`
}

func newTestApp(t *testing.T, cfg *config.Config) (*fiber.App, *utils.JWTService) {
	t.Helper()
	jwtService := utils.NewJWTService("secret")
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger.Nop())})
	app.Use(middleware.AuthMiddleware(jwtService))
	NewAuthService(cfg, jwtService, logger.Nop()).SetupRoutes(app.Group("/api"))
	return app, jwtService
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("monedas123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		Identity: config.IdentityConfig{
			OwnerUserID:       "user-1",
			VisitorUserID:     "user-visitor",
			OwnerEmail:        "admin@coleccion.com",
			OwnerPasswordHash: string(hash),
		},
	}
}

func post(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestOwnerLogin(t *testing.T) {
	app, jwtService := newTestApp(t, testConfig(t))

	resp := post(t, app, "/api/auth/login", `{"email":"Admin@Coleccion.com","password":"monedas123"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out loginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, models.RoleOwner, out.User.Role)

	actor, err := jwtService.ExtractActor(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", actor.UserID)
	assert.True(t, actor.IsOwner())

	resp = post(t, app, "/api/auth/login", `{"email":"admin@coleccion.com","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = post(t, app, "/api/auth/login", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOwnerLoginDisabledWithoutHash(t *testing.T) {
	cfg := testConfig(t)
	cfg.Identity.OwnerPasswordHash = ""
	app, _ := newTestApp(t, cfg)

	resp := post(t, app, "/api/auth/login", `{"email":"admin@coleccion.com","password":"monedas123"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestVisitorLoginIsStablePerEmail(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	var first, second loginResponse
	resp := post(t, app, "/api/auth/visitor", `{"name":"Ana","email":"ana@example.com"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))

	resp = post(t, app, "/api/auth/visitor", `{"name":"Ana María","email":"ANA@example.com"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))

	assert.Equal(t, models.RoleVisitor, first.User.Role)
	assert.Equal(t, first.User.UserID, second.User.UserID)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+second.Token)
	meResp, err := app.Test(req)
	require.NoError(t, err)

	var me models.Actor
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, "Ana María", me.Name)
}

func TestTelegramLogin(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	resp := post(t, app, "/api/auth/telegram", `{"init_data":"query_id=1"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	cfg := testConfig(t)
	cfg.TelegramBotToken = "123:abc"
	app, _ = newTestApp(t, cfg)
	resp = post(t, app, "/api/auth/telegram", `{"init_data":"query_id=1&hash=deadbeef"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
