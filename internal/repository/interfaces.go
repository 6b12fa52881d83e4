package repository

import (
	"context"

	"github.com/dom/auth-starter/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetResetToken(ctx context.Context, id uint, token *string) error
}

// SessionRepository stores at most one session per user.
type SessionRepository interface {
	UpsertByUser(ctx context.Context, userID uint, token string, meta domain.SessionMeta) (*domain.Session, error)
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	FindByUser(ctx context.Context, userID uint) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
}
