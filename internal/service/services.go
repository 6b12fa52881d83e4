package service

import (
	"github.com/dom/auth-starter/internal/config"
	"github.com/dom/auth-starter/internal/mail"
	"github.com/dom/auth-starter/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth  *AuthService
	Files *FileService
}

// NewServices wires the services. Files is nil when store is nil, i.e. when
// no bucket is configured.
func NewServices(repos *repository.Repositories, mailer mail.Sender, store ObjectStore, cfg *config.Config, logger *zap.Logger) *Services {
	services := &Services{
		Auth: NewAuthService(repos.User, repos.Session, mailer, cfg, logger),
	}
	if store != nil {
		services.Files = NewFileService(store, logger)
	}
	return services
}
