// Package auth provides password hashing, JWT issuing and verification,
// and the echo middleware that guards authenticated routes.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// ContextKeyUserID is the echo context key holding the authenticated
// user's ID.
const ContextKeyUserID = "auth.user_id"

// ContextKeyIsAdmin is the echo context key holding the admin flag.
const ContextKeyIsAdmin = "auth.is_admin"

// ErrInvalidToken is returned when a token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Manager signs and verifies tokens and hashes passwords.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a new auth manager.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Claims are the JWT claims issued at sign-in.
type Claims struct {
	UserID  string `json:"uid"`
	IsAdmin bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// HashPassword hashes a plaintext password.
func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func (m *Manager) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token for the given user.
func (m *Manager) IssueToken(userID string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and verifies a token, returning its claims.
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Middleware requires a valid bearer token and stores the caller's
// identity on the context.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.claimsFromRequest(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyIsAdmin, claims.IsAdmin)
			return next(c)
		}
	}
}

// OptionalMiddleware stores the caller's identity when a valid token is
// present, and lets the request through either way.
func (m *Manager) OptionalMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := m.claimsFromRequest(c); err == nil {
				c.Set(ContextKeyUserID, claims.UserID)
				c.Set(ContextKeyIsAdmin, claims.IsAdmin)
			}
			return next(c)
		}
	}
}

func (m *Manager) claimsFromRequest(c echo.Context) (*Claims, error) {
	header := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		// Fall back to query param for WebSocket upgrades.
		token = c.QueryParam("token")
	}
	if token == "" {
		return nil, ErrInvalidToken
	}
	return m.VerifyToken(token)
}

// UserID returns the authenticated user ID from the context, or "".
func UserID(c echo.Context) string {
	if v, ok := c.Get(ContextKeyUserID).(string); ok {
		return v
	}
	return ""
}

// IsAdmin returns the admin flag from the context.
func IsAdmin(c echo.Context) bool {
	if v, ok := c.Get(ContextKeyIsAdmin).(bool); ok {
		return v
	}
	return false
}
