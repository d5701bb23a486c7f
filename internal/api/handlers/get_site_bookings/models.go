package get_site_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из параметров пути и query
// Дата трактуется в часовом поясе площадок
func ToServiceRequest(siteIDStr, statusStr, dateStr string, loc *time.Location) (*models.GetSiteBookingsRequest, error) {
	siteID, err := strconv.ParseInt(siteIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid site id: %w", err)
	}

	req := &models.GetSiteBookingsRequest{SiteID: siteID}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.Date = &date
	}

	return req, nil
}
