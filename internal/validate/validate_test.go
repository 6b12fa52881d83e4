package validate_test

import (
	"testing"

	"github.com/dom/auth-starter/internal/domain"
	"github.com/dom/auth-starter/internal/validate"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name  string
		input signup
		want  []domain.FieldError
	}{
		{
			name: "valid",
			input: signup{
				Name:            "Alice",
				Email:           "alice@example.com",
				Password:        "Passw0rd!",
				ConfirmPassword: "Passw0rd!",
			},
		},
		{
			name: "missing fields use json names",
			input: signup{
				Password:        "Passw0rd!",
				ConfirmPassword: "Passw0rd!",
			},
			want: []domain.FieldError{
				{Field: "name", Message: "is required"},
				{Field: "email", Message: "is required"},
			},
		},
		{
			name: "bad email and short password",
			input: signup{
				Name:            "Alice",
				Email:           "not-an-email",
				Password:        "short",
				ConfirmPassword: "short",
			},
			want: []domain.FieldError{
				{Field: "email", Message: "must be a valid email address"},
				{Field: "password", Message: "must be at least 8 characters"},
			},
		},
		{
			name: "confirmation mismatch",
			input: signup{
				Name:            "Alice",
				Email:           "alice@example.com",
				Password:        "Passw0rd!",
				ConfirmPassword: "Passw0rd?",
			},
			want: []domain.FieldError{
				{Field: "confirmPassword", Message: "must match password"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate.Struct(tt.input))
		})
	}
}
