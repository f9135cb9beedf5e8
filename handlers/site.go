package handlers

import (
	"net/http"

	"collabhub/config"
	"collabhub/utils"

	"github.com/gin-gonic/gin"
)

// SiteHandler serves the site configuration and health endpoints.
type SiteHandler struct {
	siteVersion string
	env         string
	health      *utils.HealthMonitor
}

func NewSiteHandler(cfg *config.Config, health *utils.HealthMonitor) *SiteHandler {
	return &SiteHandler{siteVersion: cfg.SiteVersion, env: cfg.Env, health: health}
}

func (h *SiteHandler) SiteConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"siteVersion": h.siteVersion, "env": h.env})
}

func (h *SiteHandler) HealthHandler(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	status := h.health.Status()
	if !h.health.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": status})
}
