package service

import (
	"context"
	"io"
	"time"

	"github.com/dom/auth-starter/internal/domain"
	"github.com/dom/auth-starter/internal/storage"
	"go.uber.org/zap"
)

// ObjectStore is the subset of object storage the file service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]storage.Object, error)
}

// FileService scopes object storage to the calling user's prefix.
type FileService struct {
	store  ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

func NewFileService(store ObjectStore, logger *zap.Logger) *FileService {
	return &FileService{
		store:  store,
		logger: logger.Named("files"),
		now:    time.Now,
	}
}

type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	Key string
	URL string
}

func (s *FileService) Upload(ctx context.Context, userID uint, input UploadInput) (*UploadResult, error) {
	if input.Body == nil || input.Size <= 0 {
		return nil, domain.ErrFileRequired
	}

	key := storage.NewUserKey(userID, input.Filename, s.now().UTC())
	if err := s.store.Upload(ctx, key, input.Body, input.Size, input.ContentType); err != nil {
		return nil, err
	}

	url, err := s.store.SignedURL(ctx, key)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file uploaded", zap.Uint("userId", userID), zap.String("key", key), zap.Int64("size", input.Size))
	return &UploadResult{Key: key, URL: url}, nil
}

func (s *FileService) SignedURL(ctx context.Context, userID uint, key string) (string, error) {
	if !storage.OwnedBy(key, userID) {
		return "", domain.ErrForbiddenKey
	}
	return s.store.SignedURL(ctx, key)
}

func (s *FileService) Delete(ctx context.Context, userID uint, key string) error {
	if !storage.OwnedBy(key, userID) {
		return domain.ErrForbiddenKey
	}
	return s.store.Delete(ctx, key)
}

func (s *FileService) List(ctx context.Context, userID uint) ([]storage.Object, error) {
	objects, err := s.store.List(ctx, storage.UserPrefix(userID))
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []storage.Object{}
	}
	return objects, nil
}
