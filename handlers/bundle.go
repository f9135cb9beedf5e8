package handlers

import (
	"collabhub/config"
	"collabhub/utils"

	"go.uber.org/zap"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Registration *RegistrationHandler
	Search       *SearchHandler
	Project      *ProjectHandler
	Storage      *StorageHandler
	Site         *SiteHandler
}

// Services are the dependencies the handlers are built from.
type Services struct {
	Registration RegistrationService
	Search       Searcher
	Projects     ProjectService
	Storage      Uploader
	Health       *utils.HealthMonitor
}

func NewHandlerBundle(cfg *config.Config, svc Services, logger *zap.Logger) *HandlerBundle {
	return &HandlerBundle{
		Registration: NewRegistrationHandler(svc.Registration, logger),
		Search:       NewSearchHandler(svc.Search, logger),
		Project:      NewProjectHandler(svc.Projects, logger),
		Storage:      NewStorageHandler(svc.Storage, logger),
		Site:         NewSiteHandler(cfg, svc.Health),
	}
}
