package get_site

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

type CatalogService interface {
	GetSite(ctx context.Context, id int64) (*models.SiteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
