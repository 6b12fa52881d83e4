// Package respond writes the JSON envelope every endpoint answers with:
// {code, message, ...data} on success and {code, message, errors?} on failure.
// The HTTP status always equals code.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/auth-starter/internal/domain"
	"go.uber.org/zap"
)

type Data map[string]interface{}

type errorBody struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// JSON writes a success envelope. Keys in data sit next to code and message;
// data cannot override them.
func JSON(w http.ResponseWriter, status int, message string, data Data) {
	body := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["code"] = status
	body["message"] = message
	write(w, status, body)
}

// Error maps err to a status and writes the failure envelope. Errors without
// a domain kind become a bare 500; their cause is logged, never returned.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := Status(domain.KindOf(err))
	body := errorBody{Code: status, Message: "internal server error"}

	if derr, ok := asDomain(err); ok {
		body.Message = derr.Message
		body.Errors = derr.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}

	write(w, status, body)
}

// Status is the HTTP status for an error kind.
func Status(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func asDomain(err error) (*domain.Error, bool) {
	var derr *domain.Error
	ok := errors.As(err, &derr)
	return derr, ok
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
