package services

import (
	"github.com/EO-DataHub/eodhp-graphql-gateway/internal/appconfig"
)

// Service contains all shared dependencies for handlers.
type Service struct {
	Config *appconfig.Config
	Data   *DataServiceClient
}

// NewService wires the data service client from the configuration.
func NewService(cfg *appconfig.Config) *Service {
	return &Service{
		Config: cfg,
		Data:   NewDataServiceClient(cfg.DataService.URL, cfg.DataService.Timeout),
	}
}
