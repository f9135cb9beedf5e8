package handlers

import (
	"context"
	"errors"
	"net/http"

	"collabhub/models"
	"collabhub/services/registration"
	"collabhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegistrationService is implemented by *registration.Service.
type RegistrationService interface {
	Start(ctx context.Context) (*registration.View, error)
	Get(ctx context.Context, sessionID string) (*registration.View, error)
	Update(ctx context.Context, sessionID string, patch models.RegistrationPatch) (*registration.View, error)
	Next(ctx context.Context, sessionID string) (*registration.View, error)
	Back(ctx context.Context, sessionID string) (*registration.View, error)
}

type RegistrationHandler struct {
	svc    RegistrationService
	logger *zap.Logger
}

func NewRegistrationHandler(svc RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, logger: logger}
}

// StartHandler opens a new registration session.
func (h *RegistrationHandler) StartHandler(c *gin.Context) {
	view, err := h.svc.Start(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RegistrationHandler) GetHandler(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateHandler merges a partial record. Live validation errors, if any,
// come back in the view with status 200.
func (h *RegistrationHandler) UpdateHandler(c *gin.Context) {
	var patch models.RegistrationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, getLogger(c, h.logger), http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	view, err := h.svc.Update(c.Request.Context(), c.Param("sessionID"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// NextHandler advances the wizard, or submits it on the review step. A step
// that does not validate, or a rejected submission, answers 422 with the view.
func (h *RegistrationHandler) NextHandler(c *gin.Context) {
	view, err := h.svc.Next(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !view.Errors.Valid() {
		c.JSON(http.StatusUnprocessableEntity, view)
		return
	}
	status := http.StatusOK
	if view.State == registration.StateSubmitted {
		status = http.StatusCreated
	}
	c.JSON(status, view)
}

func (h *RegistrationHandler) BackHandler(c *gin.Context) {
	view, err := h.svc.Back(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RegistrationHandler) fail(c *gin.Context, err error) {
	logger := getLogger(c, h.logger)
	switch {
	case errors.Is(err, registration.ErrSessionNotFound):
		utils.JSONError(c, logger, http.StatusNotFound, "Registration session not found", "")
	case registration.IsConflict(err):
		utils.JSONError(c, logger, http.StatusConflict, "Registration session cannot be changed right now", err.Error())
	default:
		logger.Error("Registration request failed", zap.String("sessionID", c.Param("sessionID")), zap.Error(err))
		utils.JSONError(c, logger, http.StatusInternalServerError, "Registration failed", "")
	}
}
