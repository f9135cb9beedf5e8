package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"collabhub/middleware"
	"collabhub/services/storage"
	"collabhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadBytes caps a single uploaded image.
const maxUploadBytes = 5 << 20

// Uploader is implemented by *storage.Service.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, bucket storage.Bucket, name string) (*storage.Object, error)
	Delete(ctx context.Context, publicID string) error
}

// Uploaded names are prefixed with the uploader's id so only they can delete them.
func ownedName(userID string) string {
	return userID + "_" + uuid.NewString()
}

func ownsName(userID, name string) bool {
	return userID != "" && strings.HasPrefix(name, userID+"_")
}

// StorageHandler serves avatar and cover image uploads.
type StorageHandler struct {
	svc    Uploader
	logger *zap.Logger
}

func NewStorageHandler(svc Uploader, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{svc: svc, logger: logger}
}

// UploadFileHandler accepts a multipart "file" field.
func (h *StorageHandler) UploadFileHandler(c *gin.Context) {
	logger := getLogger(c, h.logger)

	bucket, err := storage.ParseBucket(c.Param("bucket"))
	if err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "invalid bucket; allowed values are 'avatars' and 'covers'", "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "file not provided", err.Error())
		return
	}
	if fileHeader.Size > maxUploadBytes {
		utils.JSONError(c, logger, http.StatusRequestEntityTooLarge, "file too large", "")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "failed to read upload", err.Error())
		return
	}
	defer file.Close()

	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		utils.JSONError(c, logger, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	obj, err := h.svc.Upload(c.Request.Context(), io.LimitReader(file, maxUploadBytes), bucket, ownedName(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			utils.JSONError(c, logger, http.StatusServiceUnavailable, "uploads are not available", "")
			return
		}
		logger.Error("Upload failed", zap.String("bucket", string(bucket)), zap.Error(err))
		utils.JSONError(c, logger, http.StatusBadGateway, "upload failed", "")
		return
	}
	c.JSON(http.StatusCreated, obj)
}

// DeleteFileHandler removes one of the caller's uploads.
func (h *StorageHandler) DeleteFileHandler(c *gin.Context) {
	logger := getLogger(c, h.logger)

	bucket, err := storage.ParseBucket(c.Param("bucket"))
	if err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "invalid bucket; allowed values are 'avatars' and 'covers'", "")
		return
	}
	name := c.Param("name")
	if !ownsName(c.GetString(middleware.UserIDKey), name) {
		utils.JSONError(c, logger, http.StatusForbidden, "you can only delete your own uploads", "")
		return
	}

	switch err := h.svc.Delete(c.Request.Context(), string(bucket)+"/"+name); {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, storage.ErrNotFound):
		utils.JSONError(c, logger, http.StatusNotFound, "file not found", "")
	case errors.Is(err, storage.ErrNotConfigured):
		utils.JSONError(c, logger, http.StatusServiceUnavailable, "uploads are not available", "")
	default:
		logger.Error("Delete failed", zap.String("bucket", string(bucket)), zap.Error(err))
		utils.JSONError(c, logger, http.StatusBadGateway, "delete failed", "")
	}
}
