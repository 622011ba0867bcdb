// Package notice carries one-shot messages across a redirect in a signed cookie.
package notice

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/meetyou-web/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	cookieName = "notice"
	lifetime   = time.Minute
)

// Claims defines the JWT claims structure of a notice cookie.
type Claims struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	jwt.RegisteredClaims
}

type contextKey string

// ContextKey is the context key for the notice popped by Middleware.
const ContextKey = contextKey("notice")

// Manager signs and verifies notice cookies.
type Manager struct {
	key    []byte
	secure bool
}

// NewManager creates a Manager. secure sets the cookie's Secure flag.
func NewManager(secret string, secure bool) *Manager {
	return &Manager{key: []byte(secret), secure: secure}
}

// Set stores a notice to be shown on the next page load.
func (m *Manager) Set(w http.ResponseWriter, n models.Notice) error {
	claims := &Claims{
		Kind: n.Kind,
		Text: n.Text,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return fmt.Errorf("failed to sign notice: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Success is shorthand for Set with a success notice. Failures are logged.
func (m *Manager) Success(w http.ResponseWriter, text string) {
	m.setOrLog(w, models.Notice{Kind: models.NoticeSuccess, Text: text})
}

// Error is shorthand for Set with an error notice. Failures are logged.
func (m *Manager) Error(w http.ResponseWriter, text string) {
	m.setOrLog(w, models.Notice{Kind: models.NoticeError, Text: text})
}

func (m *Manager) setOrLog(w http.ResponseWriter, n models.Notice) {
	if err := m.Set(w, n); err != nil {
		log.Error().Err(err).Msg("Failed to set notice cookie")
	}
}

// Pop reads and clears the pending notice. Tampered or expired cookies are
// cleared and ignored.
func (m *Manager) Pop(w http.ResponseWriter, r *http.Request) (models.Notice, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return models.Notice{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	claims, err := m.parse(cookie.Value)
	if err != nil {
		log.Warn().Err(err).Msg("Discarding invalid notice cookie")
		return models.Notice{}, false
	}
	return models.Notice{Kind: claims.Kind, Text: claims.Text}, true
}

func (m *Manager) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware pops the pending notice on GET requests and passes it down via
// the request context.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				if n, ok := m.Pop(w, r); ok {
					r = r.WithContext(context.WithValue(r.Context(), ContextKey, n))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext returns the notice stored by Middleware, if any.
func FromContext(ctx context.Context) (models.Notice, bool) {
	n, ok := ctx.Value(ContextKey).(models.Notice)
	return n, ok
}
