package list_sites

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

type CatalogService interface {
	ListSites(ctx context.Context) (*models.SiteListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
