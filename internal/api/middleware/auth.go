package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/auth-starter/internal/api/respond"
	"github.com/dom/auth-starter/internal/domain"
	"github.com/dom/auth-starter/internal/token"
	"go.uber.org/zap"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"

	// TokenCookie and TokenQueryParam name the fallback token sources.
	TokenCookie     = "token"
	TokenQueryParam = "token"
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID uint
	Email  string
	Role   string
	Token  string
}

// Authenticator verifies an access token and checks that its session is live.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*token.Claims, error)
}

// Auth admits requests carrying a valid token with a live session and
// rejects everything else with 401.
func Auth(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("gate")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken := ExtractToken(r)
			if accessToken == "" {
				logger.Debug("missing token", zap.String("path", r.URL.Path))
				respond.Error(w, logger, domain.ErrTokenMissing)
				return
			}

			claims, err := auth.Authenticate(r.Context(), accessToken)
			if err != nil {
				logger.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				respond.Error(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
				Token:  accessToken,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken looks for a token in the Authorization header (Bearer
// scheme), then the token cookie, then the token query parameter.
func ExtractToken(r *http.Request) string {
	if scheme, value, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok &&
		strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}

	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return r.URL.Query().Get(TokenQueryParam)
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	return identity, ok
}
