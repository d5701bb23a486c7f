package create_charge

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateOptionalCharge(ctx context.Context, req *models.CreateChargeRequest) (*models.ChargeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
