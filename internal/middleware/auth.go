package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleOfficer = "officer"

	principalKey = "principal"
)

// Principal is the verified caller attached to the request
type Principal struct {
	ID   uuid.UUID
	Role string
}

type claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and stores the principal in Locals
func Auth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return deny(c, fiber.StatusUnauthorized, "No token, authorization denied")
		}

		p, err := ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "Token is not valid")
		}

		c.Locals(principalKey, p)
		return c.Next()
	}
}

// RequireRoles rejects principals whose role is not listed. Must run after Auth.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "No token, authorization denied")
		}
		for _, role := range roles {
			if p.Role == role {
				return c.Next()
			}
		}
		return deny(c, fiber.StatusForbidden, "Access denied")
	}
}

// CurrentPrincipal returns the principal set by Auth
func CurrentPrincipal(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(principalKey).(Principal)
	return p, ok
}

// ParseToken verifies an HS256 token and extracts its principal
func ParseToken(secret []byte, token string) (Principal, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, err
	}
	if !parsed.Valid {
		return Principal{}, errors.New("invalid token")
	}

	id, err := uuid.Parse(cl.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("invalid principal id: %w", err)
	}
	return Principal{ID: id, Role: cl.Role}, nil
}

// IssueToken signs a token for p. Login lives elsewhere; this serves tools
// and tests.
func IssueToken(secret []byte, p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	cl := claims{
		ID:   p.ID.String(),
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(secret)
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
