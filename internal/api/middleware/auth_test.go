package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/auth-starter/internal/api/middleware"
	"github.com/dom/auth-starter/internal/domain"
	"github.com/dom/auth-starter/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAuthenticator accepts only "live". "no-session" stands for a valid
// token whose session was ended.
type fakeAuthenticator struct {
	seen []string
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, accessToken string) (*token.Claims, error) {
	f.seen = append(f.seen, accessToken)
	switch accessToken {
	case "live":
		return &token.Claims{UserID: 7, Email: "alice@example.com", Role: "user"}, nil
	case "no-session":
		return nil, domain.ErrSessionNotFound
	default:
		return nil, domain.ErrTokenInvalid
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		query  string
		want   string
	}{
		{name: "header wins", header: "Bearer from-header", cookie: "from-cookie", query: "from-query", want: "from-header"},
		{name: "scheme is case insensitive", header: "bearer lower", want: "lower"},
		{name: "cookie before query", cookie: "from-cookie", query: "from-query", want: "from-cookie"},
		{name: "query last", query: "from-query", want: "from-query"},
		{name: "non bearer header falls through", header: "Basic abc", cookie: "from-cookie", want: "from-cookie"},
		{name: "empty bearer falls through", header: "Bearer ", query: "from-query", want: "from-query"},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: tt.cookie})
			}

			assert.Equal(t, tt.want, middleware.ExtractToken(req))
		})
	}
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{name: "missing token", wantStatus: http.StatusUnauthorized, wantMessage: "authentication token required"},
		{name: "invalid token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized, wantMessage: "invalid or expired token"},
		{name: "valid token without session", header: "Bearer no-session", wantStatus: http.StatusUnauthorized, wantMessage: "session not found"},
		{name: "valid token", header: "Bearer live", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthenticator{}
			var got middleware.Identity
			var reached bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				got, _ = middleware.GetIdentity(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			middleware.Auth(auth, zap.NewNop())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.False(t, reached)
				var body struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantStatus, body.Code)
				assert.Equal(t, tt.wantMessage, body.Message)
				return
			}

			require.True(t, reached)
			assert.Equal(t, middleware.Identity{UserID: 7, Email: "alice@example.com", Role: "user", Token: "live"}, got)
		})
	}
}

func TestGetIdentity_Missing(t *testing.T) {
	_, ok := middleware.GetIdentity(context.Background())
	assert.False(t, ok)
}

func TestCORS(t *testing.T) {
	handler := middleware.CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
