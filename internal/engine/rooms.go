package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"hotelline/internal/domain"
	"hotelline/internal/events"
)

type RoomInput struct {
	ID        string
	Number    string `validate:"required"`
	Floor     int    `validate:"gte=1"`
	Type      string `validate:"required"`
	Capacity  int    `validate:"gte=1"`
	Amenities []string
	// Price defaults to the rate table entry for Type when nil.
	Price *decimal.Decimal
}

type CleaningInput struct {
	Type          domain.TaskType     `validate:"required,oneof=checkout-cleaning maintenance-cleaning deep-cleaning inspection"`
	AssignedTo    string              `validate:"required"`
	Priority      domain.TaskPriority `validate:"required,oneof=low medium high urgent"`
	EstimatedTime int                 `validate:"gte=1"`
	Notes         string
}

type MaintenanceInput struct {
	Issue       string              `validate:"required"`
	Priority    domain.TaskPriority `validate:"required,oneof=low medium high urgent"`
	Description string              `validate:"required"`
}

type RoomFilter struct {
	Search string
	Status domain.RoomStatus
}

// roomIndex resolves a room by id, falling back to its number.
func (e *Engine) roomIndex(ref string) int {
	for i, r := range e.state.Rooms {
		if r.ID == ref {
			return i
		}
	}
	for i, r := range e.state.Rooms {
		if r.Number == ref {
			return i
		}
	}
	return -1
}

// AddRoom registers a room as available.
func (e *Engine) AddRoom(ctx context.Context, in RoomInput) (domain.Room, error) {
	if err := e.check(in); err != nil {
		return domain.Room{}, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return domain.Room{}, invalid("price", "must not be negative")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.state.Rooms {
		if r.Number == in.Number {
			return domain.Room{}, invalid("number", "already exists")
		}
		if in.ID != "" && r.ID == in.ID {
			return domain.Room{}, invalid("id", "already exists")
		}
	}
	id := in.ID
	if id == "" {
		id = "room-" + in.Number
	}
	price, _ := e.Config.Rate(in.Type)
	if in.Price != nil {
		price = *in.Price
	}
	r := domain.Room{
		ID:        id,
		Number:    in.Number,
		Floor:     in.Floor,
		Type:      in.Type,
		Status:    domain.RoomAvailable,
		Capacity:  in.Capacity,
		Amenities: append([]string(nil), in.Amenities...),
		Price:     price,
	}
	if err := e.record(ctx, "room.added", "room", r.ID, events.EventPayload{"number": r.Number, "type": r.Type}); err != nil {
		return domain.Room{}, err
	}
	e.state.Rooms = append(e.state.Rooms, r)
	return r, nil
}

func (e *Engine) GetRoom(ref string) (domain.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.roomIndex(ref)
	if i < 0 {
		return domain.Room{}, notFound("room", ref)
	}
	return e.state.Rooms[i], nil
}

func (e *Engine) ListRooms(f RoomFilter) []domain.Room {
	e.mu.Lock()
	defer e.mu.Unlock()
	return FilterRooms(e.state.Rooms, f)
}

// FilterRooms matches Search against room number and guest name and Status
// exactly; both must hold.
func FilterRooms(in []domain.Room, f RoomFilter) []domain.Room {
	out := []domain.Room{}
	for _, r := range in {
		if f.Search != "" {
			guest := ""
			if r.Guest != nil {
				guest = *r.Guest
			}
			if !containsFold(r.Number, f.Search) && !containsFold(guest, f.Search) {
				continue
			}
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// applyRoom runs one room action under the lock: mutate edits a copy, the
// event is journaled, then the copy replaces the stored room.
func (e *Engine) applyRoom(ctx context.Context, ref string, action roomAction, mutate func(*domain.Room) error, payload func(domain.Room) events.EventPayload) (domain.Room, error) {
	i := e.roomIndex(ref)
	if i < 0 {
		return domain.Room{}, notFound("room", ref)
	}
	r := e.state.Rooms[i]
	if err := ensureRoomAction(r, action); err != nil {
		return r, e.rejected(err)
	}
	from := r.Status
	if target, ok := roomTargets[action]; ok {
		r.Status = target
	}
	if mutate != nil {
		if err := mutate(&r); err != nil {
			return e.state.Rooms[i], err
		}
	}
	settleRoom(&r)
	p := events.EventPayload{}
	if payload != nil {
		p = payload(r)
	}
	p["from"] = from
	p["to"] = r.Status
	if err := e.record(ctx, "room."+string(action), "room", r.ID, p); err != nil {
		return e.state.Rooms[i], err
	}
	e.state.Rooms[i] = r
	return r, nil
}

// AssignGuest occupies an available room.
func (e *Engine) AssignGuest(ctx context.Context, ref, guestName, expectedCheckOut string) (domain.Room, error) {
	if guestName == "" {
		return domain.Room{}, invalid("guestName", "is required")
	}
	if _, err := parseDay("checkOut", expectedCheckOut); err != nil {
		return domain.Room{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyRoom(ctx, ref, actionAssign, func(r *domain.Room) error {
		r.Guest = &guestName
		r.CheckOut = &expectedCheckOut
		return nil
	}, func(r domain.Room) events.EventPayload {
		return events.EventPayload{"guest": guestName, "checkOut": expectedCheckOut}
	})
}

// ScheduleCleaning queues a housekeeping task for an available or occupied
// room. The room's status is not changed; BeginCleaning does that once the
// room is vacated.
func (e *Engine) ScheduleCleaning(ctx context.Context, ref string, in CleaningInput) (domain.HousekeepingTask, error) {
	if err := e.check(in); err != nil {
		return domain.HousekeepingTask{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.roomIndex(ref)
	if i < 0 {
		return domain.HousekeepingTask{}, notFound("room", ref)
	}
	r := e.state.Rooms[i]
	if err := ensureRoomAction(r, actionScheduleCleaning); err != nil {
		return domain.HousekeepingTask{}, e.rejected(err)
	}
	return e.insertTask(ctx, TaskInput{
		RoomNumber:    r.Number,
		Type:          in.Type,
		AssignedTo:    in.AssignedTo,
		Priority:      in.Priority,
		EstimatedTime: in.EstimatedTime,
		Notes:         in.Notes,
	})
}

// BeginCleaning vacates an occupied room (or takes an available one) into
// cleaning.
func (e *Engine) BeginCleaning(ctx context.Context, ref string) (domain.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyRoom(ctx, ref, actionBeginCleaning, nil, nil)
}

// CompleteCleaning returns a cleaning room to available and stamps lastCleaned.
func (e *Engine) CompleteCleaning(ctx context.Context, ref string) (domain.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.timestamp()
	return e.applyRoom(ctx, ref, actionCompleteCleaning, func(r *domain.Room) error {
		r.LastCleaned = now
		return nil
	}, nil)
}

// ReportMaintenance puts the room under maintenance and opens a work order
// holding the issue and priority.
func (e *Engine) ReportMaintenance(ctx context.Context, ref string, in MaintenanceInput) (domain.Room, domain.WorkOrder, error) {
	if err := e.check(in); err != nil {
		return domain.Room{}, domain.WorkOrder{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	var wo domain.WorkOrder
	room, err := e.applyRoom(ctx, ref, actionReportMaintenance, func(r *domain.Room) error {
		desc := in.Description
		r.MaintenanceNotes = &desc
		wo = domain.WorkOrder{
			ID:          newToken("WO", e.workOrderTaken),
			RoomNumber:  r.Number,
			Issue:       in.Issue,
			Priority:    in.Priority,
			Description: in.Description,
			Status:      domain.WorkOrderOpen,
			ReportedAt:  e.timestamp(),
		}
		return nil
	}, func(r domain.Room) events.EventPayload {
		return events.EventPayload{"work_order": wo.ID, "issue": in.Issue, "priority": in.Priority}
	})
	if err != nil {
		return room, domain.WorkOrder{}, err
	}
	e.state.WorkOrders = append(e.state.WorkOrders, wo)
	return room, wo, nil
}

func (e *Engine) workOrderTaken(id string) bool {
	for _, wo := range e.state.WorkOrders {
		if wo.ID == id {
			return true
		}
	}
	return false
}

// ResolveMaintenance returns the room to available and closes its open work
// orders.
func (e *Engine) ResolveMaintenance(ctx context.Context, ref string) (domain.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.returnAvailable(ctx, ref, actionResolveMaintenance)
}

// returnAvailable applies an action that hands the room back as available and
// resolves whatever work orders are still open against it.
func (e *Engine) returnAvailable(ctx context.Context, ref string, action roomAction) (domain.Room, error) {
	room, err := e.applyRoom(ctx, ref, action, nil, func(r domain.Room) events.EventPayload {
		closed := e.openWorkOrders(r.Number)
		if len(closed) == 0 {
			return events.EventPayload{}
		}
		return events.EventPayload{"resolved_work_orders": closed}
	})
	if err != nil {
		return room, err
	}
	now := e.timestamp()
	for i, wo := range e.state.WorkOrders {
		if wo.RoomNumber == room.Number && wo.Status == domain.WorkOrderOpen {
			e.state.WorkOrders[i].Status = domain.WorkOrderResolved
			e.state.WorkOrders[i].ResolvedAt = &now
		}
	}
	return room, nil
}

func (e *Engine) openWorkOrders(number string) []string {
	var ids []string
	for _, wo := range e.state.WorkOrders {
		if wo.RoomNumber == number && wo.Status == domain.WorkOrderOpen {
			ids = append(ids, wo.ID)
		}
	}
	return ids
}

// SetOutOfOrder removes a room that is not occupied from service.
func (e *Engine) SetOutOfOrder(ctx context.Context, ref, reason string) (domain.Room, error) {
	if reason == "" {
		return domain.Room{}, invalid("reason", "is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyRoom(ctx, ref, actionSetOutOfOrder, func(r *domain.Room) error {
		r.OutOfOrderReason = &reason
		return nil
	}, func(domain.Room) events.EventPayload {
		return events.EventPayload{"reason": reason}
	})
}

// ReturnToService puts an out-of-order room back to available. Work orders a
// room carried into out-of-order are resolved with it.
func (e *Engine) ReturnToService(ctx context.Context, ref string) (domain.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.returnAvailable(ctx, ref, actionReturnToService)
}

func (e *Engine) ListWorkOrders(status domain.WorkOrderStatus) []domain.WorkOrder {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []domain.WorkOrder{}
	for _, wo := range e.state.WorkOrders {
		if status != "" && wo.Status != status {
			continue
		}
		out = append(out, wo)
	}
	return out
}
