package engine

import (
	"github.com/shopspring/decimal"

	"hotelline/internal/domain"
)

// Summary aggregates the dashboard figures for the given date (engine today
// when empty).
func (e *Engine) Summary(today string) domain.Summary {
	if today == "" {
		today = e.Today()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := domain.Summary{
		Today:        today,
		Reservations: map[domain.ReservationStatus]int{},
		Rooms:        map[domain.RoomStatus]int{},
		Revenue:      decimal.Zero,
	}
	for _, st := range domain.ReservationStatuses {
		s.Reservations[st] = 0
	}
	for _, st := range domain.RoomStatuses {
		s.Rooms[st] = 0
	}
	for _, r := range e.state.Reservations {
		s.Reservations[r.Status]++
		if r.Status != domain.ReservationCancelled {
			s.Revenue = s.Revenue.Add(r.TotalAmount)
		}
		if r.Status == domain.ReservationConfirmed && r.CheckIn == today {
			s.ArrivalsToday++
		}
		if r.Status == domain.ReservationCheckedIn && r.CheckOut == today {
			s.DeparturesToday++
		}
	}
	for _, r := range e.state.Rooms {
		s.Rooms[r.Status]++
	}
	if len(e.state.Rooms) > 0 {
		s.OccupancyRate = float64(s.Rooms[domain.RoomOccupied]) / float64(len(e.state.Rooms))
	}
	s.CompletionRate = CompletionRate(e.state.HousekeepingTasks)
	for _, wo := range e.state.WorkOrders {
		if wo.Status == domain.WorkOrderOpen {
			s.OpenWorkOrders++
		}
	}
	return s
}
