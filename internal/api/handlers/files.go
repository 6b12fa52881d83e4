package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/auth-starter/internal/api/middleware"
	"github.com/dom/auth-starter/internal/api/respond"
	"github.com/dom/auth-starter/internal/domain"
	"github.com/dom/auth-starter/internal/service"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

type FileHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{fileService: fileService, logger: logger.Named("handlers.files")}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respond.Error(w, h.logger, domain.ErrTokenMissing)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, h.logger, &domain.Error{Kind: domain.KindBadRequest, Message: "file is too large"})
			return
		}
		respond.Error(w, h.logger, domain.ErrFileRequired)
		return
	}
	defer file.Close()

	result, err := h.fileService.Upload(r.Context(), identity.UserID, service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "file uploaded", respond.Data{
		"key": result.Key,
		"url": result.URL,
	})
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respond.Error(w, h.logger, domain.ErrTokenMissing)
		return
	}

	files, err := h.fileService.List(r.Context(), identity.UserID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "ok", respond.Data{"files": files})
}

func (h *FileHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respond.Error(w, h.logger, domain.ErrTokenMissing)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		respond.Error(w, h.logger, domain.Validation([]domain.FieldError{{Field: "key", Message: "is required"}}))
		return
	}

	url, err := h.fileService.SignedURL(r.Context(), identity.UserID, key)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "ok", respond.Data{"key": key, "url": url})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respond.Error(w, h.logger, domain.ErrTokenMissing)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		respond.Error(w, h.logger, domain.Validation([]domain.FieldError{{Field: "key", Message: "is required"}}))
		return
	}

	if err := h.fileService.Delete(r.Context(), identity.UserID, key); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "file deleted", nil)
}
