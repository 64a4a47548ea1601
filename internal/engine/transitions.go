package engine

import "hotelline/internal/domain"

var reservationTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationPending:   {domain.ReservationConfirmed, domain.ReservationCancelled},
	domain.ReservationConfirmed: {domain.ReservationCheckedIn, domain.ReservationCancelled},
	domain.ReservationCheckedIn: {domain.ReservationCheckedOut, domain.ReservationCancelled},
}

func ensureReservationTransition(id string, from, to domain.ReservationStatus) error {
	for _, allowed := range reservationTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "reservation", ID: id, From: string(from), To: string(to)}
}

type roomAction string

const (
	actionAssign             roomAction = "assign"
	actionScheduleCleaning   roomAction = "schedule-cleaning"
	actionBeginCleaning      roomAction = "begin-cleaning"
	actionCompleteCleaning   roomAction = "complete-cleaning"
	actionReportMaintenance  roomAction = "report-maintenance"
	actionResolveMaintenance roomAction = "resolve-maintenance"
	actionSetOutOfOrder      roomAction = "set-out-of-order"
	actionReturnToService    roomAction = "return-to-service"
)

// roomActions lists the statuses each room action may start from.
var roomActions = map[roomAction][]domain.RoomStatus{
	actionAssign:             {domain.RoomAvailable},
	actionScheduleCleaning:   {domain.RoomAvailable, domain.RoomOccupied},
	actionBeginCleaning:      {domain.RoomAvailable, domain.RoomOccupied},
	actionCompleteCleaning:   {domain.RoomCleaning},
	actionReportMaintenance:  {domain.RoomAvailable, domain.RoomOccupied, domain.RoomCleaning, domain.RoomMaintenance},
	actionResolveMaintenance: {domain.RoomMaintenance},
	actionSetOutOfOrder:      {domain.RoomAvailable, domain.RoomCleaning, domain.RoomMaintenance},
	actionReturnToService:    {domain.RoomOutOfOrder},
}

// roomTargets is the status each action leaves the room in; actions absent
// here do not change status.
var roomTargets = map[roomAction]domain.RoomStatus{
	actionAssign:             domain.RoomOccupied,
	actionBeginCleaning:      domain.RoomCleaning,
	actionCompleteCleaning:   domain.RoomAvailable,
	actionReportMaintenance:  domain.RoomMaintenance,
	actionResolveMaintenance: domain.RoomAvailable,
	actionSetOutOfOrder:      domain.RoomOutOfOrder,
	actionReturnToService:    domain.RoomAvailable,
}

func ensureRoomAction(r domain.Room, action roomAction) error {
	for _, from := range roomActions[action] {
		if r.Status == from {
			return nil
		}
	}
	to := string(action)
	if target, ok := roomTargets[action]; ok {
		to = string(target)
	}
	return &InvalidTransitionError{Entity: "room", ID: r.ID, From: string(r.Status), To: to}
}

// settleRoom clears the fields that only belong to other statuses: guest and
// checkOut exist only while occupied, maintenanceNotes only under maintenance.
func settleRoom(r *domain.Room) {
	if r.Status != domain.RoomOccupied {
		r.Guest = nil
		r.CheckOut = nil
	}
	if r.Status != domain.RoomMaintenance {
		r.MaintenanceNotes = nil
	}
	if r.Status != domain.RoomOutOfOrder {
		r.OutOfOrderReason = nil
	}
}

var taskTransitions = map[domain.TaskStatus][]domain.TaskStatus{
	domain.TaskPending:    {domain.TaskInProgress},
	domain.TaskInProgress: {domain.TaskCompleted},
	domain.TaskDelayed:    {domain.TaskCompleted},
}

func ensureTaskTransition(id string, from, to domain.TaskStatus) error {
	for _, allowed := range taskTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "task", ID: id, From: string(from), To: string(to)}
}
