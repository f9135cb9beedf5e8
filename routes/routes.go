package routes

import (
	"time"

	"collabhub/handlers"
	"collabhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRegistrationRoutes registers the sign-up wizard endpoints.
func RegisterRegistrationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/register")
	{
		api.POST("", hb.Registration.StartHandler)
		api.GET("/:sessionID", hb.Registration.GetHandler)
		api.PATCH("/:sessionID", hb.Registration.UpdateHandler)
		api.POST("/:sessionID/next", hb.Registration.NextHandler)
		api.POST("/:sessionID/back", hb.Registration.BackHandler)
	}
}

// RegisterSearchRoutes registers the explore/search endpoint.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/search", hb.Search.SearchHandler)
}

// RegisterProjectRoutes registers project endpoints. All require authentication.
func RegisterProjectRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	api := r.Group("/api/projects")
	{
		api.Use(auth)
		api.POST("", hb.Project.CreateProjectHandler)
		api.GET("", hb.Project.ListMyProjectsHandler)
		api.GET("/:id", hb.Project.GetProjectHandler)
		api.DELETE("/:id", hb.Project.DeleteProjectHandler)
	}
}

// RegisterUploadRoutes registers image upload endpoints.
func RegisterUploadRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	api := r.Group("/api/uploads")
	{
		api.Use(auth)
		api.POST("/:bucket", hb.Storage.UploadFileHandler)
		api.DELETE("/:bucket/:name", hb.Storage.DeleteFileHandler)
	}
}

// RegisterSiteRoutes registers health and site configuration endpoints.
func RegisterSiteRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Site.HealthHandler)
	r.GET("/api/site", hb.Site.SiteConfigHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, verifier middleware.TokenVerifier) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	auth := middleware.AuthMiddleware(verifier)

	RegisterSiteRoutes(r, hb)
	RegisterRegistrationRoutes(r, hb)
	RegisterSearchRoutes(r, hb)
	RegisterProjectRoutes(r, hb, auth)
	RegisterUploadRoutes(r, hb, auth)
}
