package update_site_capacity

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

type CatalogService interface {
	UpdateSiteCapacity(ctx context.Context, id int64, req *models.UpdateCapacityRequest) (*models.SiteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
