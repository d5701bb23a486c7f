package create_site

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateSite(ctx context.Context, req *models.CreateSiteRequest) (*models.SiteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
