package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/auth-starter/internal/api/respond"
	"github.com/dom/auth-starter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.JSON(rec, http.StatusCreated, "created", respond.Data{
		"user": map[string]int{"id": 1},
		"code": 999,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, float64(http.StatusCreated), body["code"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, body["user"])
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantErrors  bool
		wantLogged  bool
	}{
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found", false, false},
		{"bad request wrapped", fmt.Errorf("login: %w", domain.ErrBadCredentials), http.StatusBadRequest, "invalid email or password", false, false},
		{"unauthorized", domain.ErrSessionNotFound, http.StatusUnauthorized, "session not found", false, false},
		{"forbidden", domain.ErrAccountInactive, http.StatusForbidden, "account is inactive", false, false},
		{
			"validation",
			domain.Validation([]domain.FieldError{{Field: "email", Message: "is required"}}),
			http.StatusBadRequest, "validation failed", true, false,
		},
		{"domain internal", fmt.Errorf("%w: %w", domain.ErrEmailDelivery, errors.New("smtp down")), http.StatusInternalServerError, "failed to send email", false, true},
		{"unmapped", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			rec := httptest.NewRecorder()

			respond.Error(rec, zap.New(core), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, float64(tt.wantStatus), body["code"])
			assert.Equal(t, tt.wantMessage, body["message"])
			_, hasErrors := body["errors"]
			assert.Equal(t, tt.wantErrors, hasErrors)
			assert.NotContains(t, rec.Body.String(), "pq: connection reset")
			assert.Equal(t, tt.wantLogged, logs.Len() == 1)
		})
	}
}
