package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/auth",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

type envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// StatusError is returned when the backend answers with an unexpected status
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// RegisterUser creates a new account with a unique email
func (c *APIClient) RegisterUser(baseName, password string) (*User, error) {
	suffix := time.Now().UnixNano() % 1000000
	body := map[string]string{
		"name":            fmt.Sprintf("%s %d", baseName, suffix),
		"email":           fmt.Sprintf("%s_%d@example.com", baseName, suffix),
		"password":        password,
		"confirmPassword": password,
	}

	env, err := c.call(http.MethodPost, "/user-registration", body, "", http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return env.User, nil
}

// Login returns the access token for the given credentials
func (c *APIClient) Login(email, password string) (string, int64, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	env, err := c.call(http.MethodPost, "/user-login", body, "", http.StatusOK)
	if err != nil {
		return "", 0, fmt.Errorf("login: %w", err)
	}
	return env.Token, env.ExpiresIn, nil
}

// Me returns the user behind token
func (c *APIClient) Me(token string) (*User, error) {
	env, err := c.call(http.MethodGet, "/me", nil, token, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return env.User, nil
}

// Logout ends the session holding token
func (c *APIClient) Logout(token string) error {
	if _, err := c.call(http.MethodPost, "/logout", nil, token, http.StatusOK); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ForgotPassword asks the backend to mail a reset link
func (c *APIClient) ForgotPassword(email string) error {
	if _, err := c.call(http.MethodPost, "/forgot-password", map[string]string{"email": email}, "", http.StatusOK); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

// HTTP helpers

func (c *APIClient) call(method, path string, body interface{}, token string, want int) (*envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != want {
		return nil, &StatusError{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}
