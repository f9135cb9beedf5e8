package handlers

import (
	"context"
	"errors"
	"net/http"

	"collabhub/middleware"
	"collabhub/models"
	"collabhub/services/project"
	"collabhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ProjectService is implemented by *project.Service.
type ProjectService interface {
	Create(ctx context.Context, ownerID string, in project.Input) (*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type ProjectHandler struct {
	svc    ProjectService
	logger *zap.Logger
}

func NewProjectHandler(svc ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

func (h *ProjectHandler) CreateProjectHandler(c *gin.Context) {
	var in project.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, getLogger(c, h.logger), http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), c.GetString(middleware.UserIDKey), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) GetProjectHandler(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListMyProjectsHandler returns the caller's own projects.
func (h *ProjectHandler) ListMyProjectsHandler(c *gin.Context) {
	limit := cast.ToInt(c.Query("limit"))
	projects, err := h.svc.ListByOwner(c.Request.Context(), c.GetString(middleware.UserIDKey), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) DeleteProjectHandler(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) fail(c *gin.Context, err error) {
	logger := getLogger(c, h.logger)
	switch {
	case errors.Is(err, project.ErrInvalidInput):
		utils.JSONError(c, logger, http.StatusUnprocessableEntity, "Invalid project", err.Error())
	case errors.Is(err, project.ErrNotFound):
		utils.JSONError(c, logger, http.StatusNotFound, "Project not found", "")
	case errors.Is(err, project.ErrForbidden):
		utils.JSONError(c, logger, http.StatusForbidden, "Only the project owner can do this", "")
	default:
		logger.Error("Project request failed", zap.Error(err))
		utils.JSONError(c, logger, http.StatusInternalServerError, "Project request failed", "")
	}
}
