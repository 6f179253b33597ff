package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-0123456789")

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Auth(testSecret), func(c *fiber.Ctx) error {
		p, _ := CurrentPrincipal(c)
		return c.SendString(p.ID.String() + " " + p.Role)
	})
	app.Get("/admin", Auth(testSecret), RequireRoles(RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func bearer(t *testing.T, secret []byte, p Principal, ttl time.Duration) string {
	t.Helper()
	token, err := IssueToken(secret, p, ttl)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuth(t *testing.T) {
	app := testApp()
	user := Principal{ID: uuid.New(), Role: RoleUser}

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing token", "/me", "", fiber.StatusUnauthorized},
		{"not bearer", "/me", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "/me", "Bearer nope", fiber.StatusUnauthorized},
		{"wrong secret", "/me", bearer(t, []byte("another-secret-0123456789"), user, time.Hour), fiber.StatusUnauthorized},
		{"expired", "/me", bearer(t, testSecret, user, -time.Minute), fiber.StatusUnauthorized},
		{"valid", "/me", bearer(t, testSecret, user, time.Hour), fiber.StatusOK},
		{"role denied", "/admin", bearer(t, testSecret, user, time.Hour), fiber.StatusForbidden},
		{"role allowed", "/admin", bearer(t, testSecret, Principal{ID: uuid.New(), Role: RoleAdmin}, time.Hour), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	p := Principal{ID: uuid.New(), Role: RoleOfficer}
	token, err := IssueToken(testSecret, p, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
