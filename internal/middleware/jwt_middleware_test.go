package middleware_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"resto/internal/middleware"
	"resto/internal/models"
	"resto/internal/services"
	"resto/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUsers serves a single account.
type stubUsers struct {
	user models.User
}

func (s *stubUsers) Create(context.Context, *models.User) error { return nil }

func (s *stubUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(username == s.user.Username)
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(email == s.user.Email)
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return s.find(id == s.user.ID)
}

func (s *stubUsers) Update(context.Context, *models.User) error { return nil }

func (s *stubUsers) find(ok bool) (*models.User, error) {
	if !ok {
		return nil, models.NotFoundf("user not found")
	}
	u := s.user
	return &u, nil
}

// setup returns an app with a protected and an admin-only route, and a valid token for a user
// holding role.
func setup(t *testing.T, role string) (*fiber.App, *services.AuthService, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &stubUsers{user: models.User{ID: "user-1", Username: "kim", Email: "kim@example.com", Password: string(hash), Role: role}}
	authService := services.NewAuthService(users, session.NewMemoryStore(), nil, "middleware_test_secret", time.Hour)

	result, err := authService.Login(context.Background(), services.LoginInput{Email: "kim@example.com", Password: "secret123"})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentUser(c).Username)
	})
	app.Get("/admin", middleware.AuthRequired(authService), middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, authService, result.Token
}

func get(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	app, authService, token := setup(t, models.RoleStaff)

	status, body := get(t, app, "/me", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "kim", body)

	status, _ = get(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/me", "Token "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/me", "Bearer not.a.token")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	rc, err := authService.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, authService.Logout(context.Background(), *rc))
	status, _ = get(t, app, "/me", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequireRole(t *testing.T) {
	app, _, token := setup(t, models.RoleStaff)
	status, _ := get(t, app, "/admin", "Bearer "+token)
	assert.Equal(t, fiber.StatusForbidden, status)

	app, _, token = setup(t, models.RoleAdmin)
	status, _ = get(t, app, "/admin", "Bearer "+token)
	assert.Equal(t, fiber.StatusNoContent, status)
}
