package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const slotDuration = time.Hour

// generateSlots режет окно [start, end) на часовые интервалы
func generateSlots(start, end time.Time) []Slot {
	slots := make([]Slot, 0, int(end.Sub(start)/slotDuration)+1)
	for cur := start; cur.Before(end); cur = cur.Add(slotDuration) {
		slotEnd := cur.Add(slotDuration)
		if slotEnd.After(end) {
			slotEnd = end
		}
		slots = append(slots, Slot{StartTime: cur, EndTime: slotEnd})
	}
	return slots
}

// calculateAvailableSpots заполняет свободные места для каждого интервала
// Возвращает минимум свободных мест по всем интервалам
func calculateAvailableSpots(slots []Slot, bookings []*domain.Booking, totalSpots int) int {
	minAvailable := totalSpots
	for i := range slots {
		occupied := countOverlappingBookings(slots[i].StartTime, slots[i].EndTime, bookings)

		available := totalSpots - occupied
		if available < 0 {
			available = 0
		}

		slots[i].TotalSpots = totalSpots
		slots[i].AvailableSpots = available
		if available < minAvailable {
			minAvailable = available
		}
	}
	return minAvailable
}

// countOverlappingBookings считает активные бронирования, пересекающие интервал
// Граничащие интервалы не пересекаются:
// - интервал 11:00-12:00, бронирование 10:00-11:00 → НЕТ пересечения
// - интервал 11:00-12:00, бронирование 11:30-13:00 → ЕСТЬ пересечение
func countOverlappingBookings(slotStart, slotEnd time.Time, bookings []*domain.Booking) int {
	count := 0
	for _, b := range bookings {
		if b.Status != domain.StatusPending && b.Status != domain.StatusPaid {
			continue
		}
		if b.StartTime.Before(slotEnd) && b.EndTime.After(slotStart) {
			count++
		}
	}
	return count
}
