package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dom/auth-starter/internal/config"
	"github.com/dom/auth-starter/internal/domain"
	"github.com/dom/auth-starter/internal/mail"
	"github.com/dom/auth-starter/internal/password"
	"github.com/dom/auth-starter/internal/repository"
	"github.com/dom/auth-starter/internal/token"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	mailer      mail.Sender
	cfg         *config.Config
	logger      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	mailer mail.Sender,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		mailer:      mailer,
		cfg:         cfg,
		logger:      logger.Named("auth"),
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type ResetPasswordInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Token           string
}

type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresIn int64
}

// Register creates an active, unverified user and mails a verification link.
// A delivery failure is returned after the user row exists.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if len(input.Password) > password.MaxBytes {
		return nil, domain.ErrPasswordTooLong
	}

	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: &hashed,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	verifyToken, _, err := token.Generate(token.Claims{
		Email:   user.Email,
		UserID:  user.ID,
		Purpose: token.PurposeVerify,
	}, s.secret(), s.cfg.VerifyTokenExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	msg, err := mail.VerifyEmail(user.Email, user.Name, s.cfg.AppURL, verifyToken)
	if err != nil {
		return nil, err
	}
	if err := s.send(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("userId", user.ID))
	return user, nil
}

// Login checks credentials and issues an access token. Persisting the
// session is left to the caller.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.IsActive || user.IsDeleted {
		return nil, domain.ErrAccountInactive
	}

	if !user.HasPassword() || !password.Verify(*user.PasswordHash, plain) {
		return nil, domain.ErrBadCredentials
	}

	signed, expiresIn, err := token.Generate(token.Claims{
		Email:   user.Email,
		UserID:  user.ID,
		Role:    user.Role,
		Purpose: token.PurposeAccess,
	}, s.secret(), s.cfg.JWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &LoginResult{User: user, Token: signed, ExpiresIn: expiresIn}, nil
}

func (s *AuthService) StartSession(ctx context.Context, userID uint, accessToken string, meta domain.SessionMeta) (*domain.Session, error) {
	return s.sessionRepo.UpsertByUser(ctx, userID, accessToken, meta)
}

// EndSession removes the session holding accessToken. Unknown tokens are a
// no-op.
func (s *AuthService) EndSession(ctx context.Context, accessToken string) error {
	return s.sessionRepo.DeleteByToken(ctx, accessToken)
}

func (s *AuthService) SessionByToken(ctx context.Context, accessToken string) (*domain.Session, error) {
	return s.sessionRepo.FindByToken(ctx, accessToken)
}

// Authenticate verifies an access token and requires a live session for it.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*token.Claims, error) {
	claims, err := token.Verify(accessToken, s.secret())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	if claims.Purpose != token.PurposeAccess {
		return nil, domain.ErrTokenInvalid
	}

	if _, err := s.sessionRepo.FindByToken(ctx, accessToken); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyEmail marks the owner of a verification token as verified. Verifying
// twice is not an error.
func (s *AuthService) VerifyEmail(ctx context.Context, verifyToken string) (*domain.User, error) {
	claims, err := token.Verify(verifyToken, s.secret())
	if err != nil || claims.Purpose != token.PurposeVerify {
		return nil, domain.ErrInvalidOrExpiredToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidOrExpiredToken
		}
		return nil, err
	}
	if user.Email != claims.Email {
		return nil, domain.ErrInvalidOrExpiredToken
	}

	if !user.IsEmailVerified {
		user.IsEmailVerified = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// RequestPasswordReset stores a short-lived reset token on the user and mails
// it. A newer request replaces the previous token.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	resetToken, _, err := token.Generate(token.Claims{
		Email:   user.Email,
		UserID:  user.ID,
		Purpose: token.PurposeReset,
	}, s.secret(), s.cfg.ResetTokenExpiresIn)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, &resetToken); err != nil {
		return err
	}

	msg, err := mail.ResetRequest(user.Email, user.Name, s.cfg.AppURL, resetToken)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

// ResetPassword sets a new password when token matches the stored reset
// token byte for byte and still verifies. The stored token is cleared, so a
// token works once.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if input.Password != input.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	if len(input.Password) > password.MaxBytes {
		return domain.ErrPasswordTooLong
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidOrExpiredToken
		}
		return err
	}

	if user.ResetToken == nil || subtle.ConstantTimeCompare([]byte(*user.ResetToken), []byte(input.Token)) != 1 {
		return domain.ErrInvalidOrExpiredToken
	}
	claims, err := token.Verify(input.Token, s.secret())
	if err != nil || claims.Purpose != token.PurposeReset || claims.UserID != user.ID {
		return domain.ErrInvalidOrExpiredToken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return err
	}

	user.PasswordHash = &hashed
	user.ResetToken = nil
	user.IsEmailVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	msg, err := mail.ResetDone(user.Email, user.Name)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) send(ctx context.Context, msg mail.Message) error {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", domain.ErrEmailDelivery, err)
	}
	return nil
}

func (s *AuthService) secret() []byte {
	return []byte(s.cfg.JWTSecret)
}
