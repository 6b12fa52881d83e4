package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/auth-starter/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
	role     string
	inactive bool
	verified bool
	deleted  bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "Test User " + suffix,
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password. An empty password builds a user without
// credentials.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.role = role
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.inactive = true
	return b
}

func (b *UserBuilder) Verified() *UserBuilder {
	b.verified = true
	return b
}

func (b *UserBuilder) Deleted() *UserBuilder {
	b.deleted = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		Name:            b.name,
		Email:           domain.NormalizeEmail(b.email),
		Role:            b.role,
		IsActive:        true,
		IsEmailVerified: b.verified,
	}

	if b.password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		hashed := string(hashedPassword)
		user.PasswordHash = &hashed
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// Zero values are skipped on insert for columns with a default, so flags
	// that default to true are cleared afterwards.
	if b.inactive || b.deleted {
		updates := map[string]interface{}{
			"is_active":  !b.inactive,
			"is_deleted": b.deleted,
		}
		if err := db.Model(user).Updates(updates).Error; err != nil {
			t.Fatalf("failed to update user flags: %v", err)
		}
		user.IsActive = !b.inactive
		user.IsDeleted = b.deleted
	}

	return user, b.password
}

// Envelope is the common shape of every JSON response
type Envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	User    *UserPayload        `json:"user,omitempty"`
	Token   string              `json:"token,omitempty"`
	Expires int64               `json:"expiresIn,omitempty"`
	Files   []FilePayload       `json:"files,omitempty"`
	Key     string              `json:"key,omitempty"`
	URL     string              `json:"url,omitempty"`
}

// UserPayload matches the user object returned by the API
type UserPayload struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

// FilePayload matches a file listing entry
type FilePayload struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// PostJSON sends body as JSON, adding a bearer token when one is given
func PostJSON(t *testing.T, url string, body interface{}, token string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// Login logs in through the API and returns the access token
func Login(t *testing.T, ts *TestServer, email, password string) string {
	t.Helper()

	resp := PostJSON(t, ts.APIURL("/auth/user-login"), map[string]string{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env.Token
}
