package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"hotelline/internal/domain"
	"hotelline/internal/events"
)

// ReservationInput are parameters for creating a reservation.
type ReservationInput struct {
	ID              string
	GuestName       string `validate:"required"`
	Email           string `validate:"required"`
	Phone           string `validate:"required"`
	CheckIn         string `validate:"required"`
	CheckOut        string `validate:"required"`
	RoomType        string `validate:"required"`
	Guests          int    `validate:"gte=1"`
	SpecialRequests string
}

// ReservationPatch carries the fields UpdateReservation merges. Nil means
// keep the current value.
type ReservationPatch struct {
	GuestName       *string
	Email           *string
	Phone           *string
	CheckIn         *string
	CheckOut        *string
	RoomType        *string
	RoomNumber      *string
	Status          *domain.ReservationStatus
	TotalAmount     *decimal.Decimal
	Guests          *int
	SpecialRequests *string
}

type ReservationFilter struct {
	Search   string
	Status   domain.ReservationStatus
	RoomType string
}

// BulkOptions selects reservations for a bulk transition. No IDs means the
// whole collection; Today defaults to the engine's current date.
type BulkOptions struct {
	IDs   []string
	Today string
}

type BulkResult struct {
	Affected []string `json:"affected"`
	Count    int      `json:"count"`
}

func (e *Engine) reservationIndex(id string) int {
	for i, r := range e.state.Reservations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func ensureStayWindow(checkIn, checkOut string) error {
	in, err := parseDay("checkIn", checkIn)
	if err != nil {
		return err
	}
	out, err := parseDay("checkOut", checkOut)
	if err != nil {
		return err
	}
	if !out.After(in) {
		return invalid("checkOut", "must be after checkIn")
	}
	return nil
}

// CreateReservation adds a pending reservation priced from the rate table.
func (e *Engine) CreateReservation(ctx context.Context, in ReservationInput) (domain.Reservation, error) {
	if err := e.check(in); err != nil {
		return domain.Reservation{}, err
	}
	if err := ensureStayWindow(in.CheckIn, in.CheckOut); err != nil {
		return domain.Reservation{}, err
	}
	quote, err := e.Quote(in.RoomType, in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !quote.KnownType && e.Config.Pricing.StrictRoomTypes {
		return domain.Reservation{}, invalid("roomType", "is not in the rate table")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	id := in.ID
	if id == "" {
		id = newToken("RSV", func(c string) bool { return e.reservationIndex(c) >= 0 })
	} else if e.reservationIndex(id) >= 0 {
		return domain.Reservation{}, invalid("id", "already exists")
	}
	r := domain.Reservation{
		ID:              id,
		GuestName:       in.GuestName,
		Email:           in.Email,
		Phone:           in.Phone,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		RoomType:        in.RoomType,
		Status:          domain.ReservationPending,
		TotalAmount:     quote.TotalAmount,
		Guests:          in.Guests,
		SpecialRequests: in.SpecialRequests,
	}
	if err := e.record(ctx, "reservation.created", "reservation", r.ID, events.EventPayload{
		"status":      r.Status,
		"room_type":   r.RoomType,
		"nights":      quote.Nights,
		"totalAmount": r.TotalAmount,
	}); err != nil {
		return domain.Reservation{}, err
	}
	e.state.Reservations = append(e.state.Reservations, r)
	return r, nil
}

func (e *Engine) GetReservation(id string) (domain.Reservation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.reservationIndex(id)
	if i < 0 {
		return domain.Reservation{}, notFound("reservation", id)
	}
	return e.state.Reservations[i], nil
}

func (e *Engine) ListReservations(f ReservationFilter) []domain.Reservation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return FilterReservations(e.state.Reservations, f)
}

// FilterReservations ANDs the provided filters; empty ones match everything.
// Search matches guest name, email or id case-insensitively.
func FilterReservations(in []domain.Reservation, f ReservationFilter) []domain.Reservation {
	out := []domain.Reservation{}
	for _, r := range in {
		if f.Search != "" && !containsFold(r.GuestName, f.Search) && !containsFold(r.Email, f.Search) && !containsFold(r.ID, f.Search) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.RoomType != "" && !containsFold(r.RoomType, f.RoomType) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine) transitionReservation(ctx context.Context, id string, to domain.ReservationStatus, gate func(domain.Reservation) bool) (domain.Reservation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.reservationIndex(id)
	if i < 0 {
		return domain.Reservation{}, notFound("reservation", id)
	}
	r := e.state.Reservations[i]
	if err := ensureReservationTransition(r.ID, r.Status, to); err != nil {
		return r, e.rejected(err)
	}
	if gate != nil && !gate(r) {
		return r, e.rejected(&InvalidTransitionError{Entity: "reservation", ID: r.ID, From: string(r.Status), To: string(to)})
	}
	from := r.Status
	r.Status = to
	if err := e.record(ctx, "reservation."+eventVerb(to), "reservation", r.ID, events.EventPayload{"from": from, "to": to}); err != nil {
		return e.state.Reservations[i], err
	}
	e.state.Reservations[i] = r
	return r, nil
}

func eventVerb(s domain.ReservationStatus) string {
	switch s {
	case domain.ReservationConfirmed:
		return "confirmed"
	case domain.ReservationCheckedIn:
		return "checked_in"
	case domain.ReservationCheckedOut:
		return "checked_out"
	case domain.ReservationCancelled:
		return "cancelled"
	default:
		return "updated"
	}
}

func (e *Engine) ConfirmReservation(ctx context.Context, id string) (domain.Reservation, error) {
	return e.transitionReservation(ctx, id, domain.ReservationConfirmed, nil)
}

// CheckIn moves a confirmed reservation whose check-in date has arrived to
// checked-in.
func (e *Engine) CheckIn(ctx context.Context, id string) (domain.Reservation, error) {
	today := e.Today()
	return e.transitionReservation(ctx, id, domain.ReservationCheckedIn, func(r domain.Reservation) bool {
		return arrived(r, today)
	})
}

func (e *Engine) CheckOut(ctx context.Context, id string) (domain.Reservation, error) {
	return e.transitionReservation(ctx, id, domain.ReservationCheckedOut, nil)
}

func (e *Engine) CancelReservation(ctx context.Context, id string) (domain.Reservation, error) {
	return e.transitionReservation(ctx, id, domain.ReservationCancelled, nil)
}

func arrived(r domain.Reservation, today string) bool {
	in, err := parseDay("checkIn", r.CheckIn)
	if err != nil {
		return false
	}
	day, err := parseDay("today", today)
	if err != nil {
		return false
	}
	return !in.After(day)
}

// BulkCheckIn checks in every selected reservation that is confirmed with a
// check-in date on or before the reference date. Others are skipped.
func (e *Engine) BulkCheckIn(ctx context.Context, opts BulkOptions) (BulkResult, error) {
	today := opts.Today
	if today == "" {
		today = e.Today()
	} else if _, err := parseDay("today", today); err != nil {
		return BulkResult{}, err
	}
	return e.bulk(ctx, opts.IDs, domain.ReservationCheckedIn, func(r domain.Reservation) bool {
		return r.Status == domain.ReservationConfirmed && arrived(r, today)
	})
}

// BulkCheckOut checks out every selected reservation that is checked-in.
func (e *Engine) BulkCheckOut(ctx context.Context, opts BulkOptions) (BulkResult, error) {
	return e.bulk(ctx, opts.IDs, domain.ReservationCheckedOut, func(r domain.Reservation) bool {
		return r.Status == domain.ReservationCheckedIn
	})
}

func (e *Engine) bulk(ctx context.Context, ids []string, to domain.ReservationStatus, eligible func(domain.Reservation) bool) (BulkResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	selected := map[string]bool{}
	for _, id := range ids {
		selected[id] = true
	}
	var idx []int
	res := BulkResult{Affected: []string{}}
	for i, r := range e.state.Reservations {
		if len(ids) > 0 && !selected[r.ID] {
			continue
		}
		if !eligible(r) {
			continue
		}
		idx = append(idx, i)
		res.Affected = append(res.Affected, r.ID)
	}
	res.Count = len(idx)
	if res.Count == 0 {
		return res, nil
	}
	if err := e.record(ctx, "reservation.bulk_"+eventVerb(to), "reservation", "", events.EventPayload{
		"to":  to,
		"ids": res.Affected,
	}); err != nil {
		return BulkResult{}, err
	}
	for _, i := range idx {
		e.state.Reservations[i].Status = to
	}
	return res, nil
}

// UpdateReservation merges patch into the reservation. The total is never
// recomputed here, and a status in the patch is applied as a manual override.
func (e *Engine) UpdateReservation(ctx context.Context, id string, patch ReservationPatch) (domain.Reservation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.reservationIndex(id)
	if i < 0 {
		return domain.Reservation{}, notFound("reservation", id)
	}
	r := e.state.Reservations[i]
	original := r
	if patch.GuestName != nil {
		if *patch.GuestName == "" {
			return original, invalid("guestName", "is required")
		}
		r.GuestName = *patch.GuestName
	}
	if patch.Email != nil {
		if *patch.Email == "" {
			return original, invalid("email", "is required")
		}
		r.Email = *patch.Email
	}
	if patch.Phone != nil {
		if *patch.Phone == "" {
			return original, invalid("phone", "is required")
		}
		r.Phone = *patch.Phone
	}
	if patch.CheckIn != nil {
		r.CheckIn = *patch.CheckIn
	}
	if patch.CheckOut != nil {
		r.CheckOut = *patch.CheckOut
	}
	if patch.CheckIn != nil || patch.CheckOut != nil {
		if err := ensureStayWindow(r.CheckIn, r.CheckOut); err != nil {
			return original, err
		}
	}
	if patch.RoomType != nil {
		if *patch.RoomType == "" {
			return original, invalid("roomType", "is required")
		}
		r.RoomType = *patch.RoomType
	}
	if patch.RoomNumber != nil {
		r.RoomNumber = optionalString(*patch.RoomNumber)
	}
	if patch.Guests != nil {
		if *patch.Guests < 1 {
			return original, invalid("guests", "must be at least 1")
		}
		r.Guests = *patch.Guests
	}
	if patch.TotalAmount != nil {
		if patch.TotalAmount.IsNegative() {
			return original, invalid("totalAmount", "must not be negative")
		}
		r.TotalAmount = *patch.TotalAmount
	}
	if patch.SpecialRequests != nil {
		r.SpecialRequests = *patch.SpecialRequests
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return original, invalid("status", "is not a reservation status")
		}
		r.Status = *patch.Status
	}
	evtType := "reservation.updated"
	if r.Status != original.Status {
		evtType = "reservation.status.overridden"
	}
	if err := e.record(ctx, evtType, "reservation", r.ID, events.EventPayload{"from": original.Status, "to": r.Status}); err != nil {
		return original, err
	}
	e.state.Reservations[i] = r
	return r, nil
}
