package domain

import "github.com/shopspring/decimal"

// DateLayout is the calendar date format used for stay windows.
const DateLayout = "2006-01-02"

// Amounts are JSON numbers in snapshots and API bodies.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked-in"
	ReservationCheckedOut ReservationStatus = "checked-out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

var ReservationStatuses = []ReservationStatus{
	ReservationPending, ReservationConfirmed, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled,
}

func (s ReservationStatus) Valid() bool {
	for _, v := range ReservationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no further lifecycle transition is possible.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCheckedOut || s == ReservationCancelled
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out-of-order"
)

var RoomStatuses = []RoomStatus{RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomOutOfOrder}

func (s RoomStatus) Valid() bool {
	for _, v := range RoomStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type TaskType string

const (
	TaskCheckoutCleaning    TaskType = "checkout-cleaning"
	TaskMaintenanceCleaning TaskType = "maintenance-cleaning"
	TaskDeepCleaning        TaskType = "deep-cleaning"
	TaskInspection          TaskType = "inspection"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskDelayed    TaskStatus = "delayed"
)

var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskDelayed}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID              string            `json:"id"`
	GuestName       string            `json:"guestName"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	CheckIn         string            `json:"checkIn" format:"date"`
	CheckOut        string            `json:"checkOut" format:"date"`
	RoomType        string            `json:"roomType"`
	RoomNumber      *string           `json:"roomNumber,omitempty"`
	Status          ReservationStatus `json:"status" enum:"pending,confirmed,checked-in,checked-out,cancelled"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Guests          int               `json:"guests"`
	SpecialRequests string            `json:"specialRequests,omitempty"`
}

type Room struct {
	ID               string          `json:"id"`
	Number           string          `json:"number"`
	Floor            int             `json:"floor"`
	Type             string          `json:"type"`
	Status           RoomStatus      `json:"status" enum:"available,occupied,cleaning,maintenance,out-of-order"`
	Guest            *string         `json:"guest,omitempty"`
	CheckOut         *string         `json:"checkOut,omitempty" format:"date"`
	Capacity         int             `json:"capacity"`
	Amenities        []string        `json:"amenities,omitempty"`
	Price            decimal.Decimal `json:"price"`
	LastCleaned      string          `json:"lastCleaned,omitempty"`
	MaintenanceNotes *string         `json:"maintenanceNotes,omitempty"`
	OutOfOrderReason *string         `json:"outOfOrderReason,omitempty"`
}

type HousekeepingTask struct {
	ID            string       `json:"id"`
	RoomNumber    string       `json:"roomNumber"`
	Type          TaskType     `json:"type" enum:"checkout-cleaning,maintenance-cleaning,deep-cleaning,inspection"`
	AssignedTo    string       `json:"assignedTo"`
	Priority      TaskPriority `json:"priority" enum:"low,medium,high,urgent"`
	EstimatedTime int          `json:"estimatedTime"`
	Status        TaskStatus   `json:"status" enum:"pending,in-progress,completed,delayed"`
	StartTime     *string      `json:"startTime,omitempty" format:"date-time"`
	CompletedAt   *string      `json:"completedAt,omitempty" format:"date-time"`
	Notes         string       `json:"notes,omitempty"`
}

type WorkOrderStatus string

const (
	WorkOrderOpen     WorkOrderStatus = "open"
	WorkOrderResolved WorkOrderStatus = "resolved"
)

// WorkOrder keeps the issue and priority of a maintenance report; the room only
// carries the description.
type WorkOrder struct {
	ID          string          `json:"id"`
	RoomNumber  string          `json:"roomNumber"`
	Issue       string          `json:"issue"`
	Priority    TaskPriority    `json:"priority" enum:"low,medium,high,urgent"`
	Description string          `json:"description"`
	Status      WorkOrderStatus `json:"status" enum:"open,resolved"`
	ReportedAt  string          `json:"reportedAt" format:"date-time"`
	ResolvedAt  *string         `json:"resolvedAt,omitempty" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

type Summary struct {
	Today           string                    `json:"today" format:"date"`
	Reservations    map[ReservationStatus]int `json:"reservations"`
	Rooms           map[RoomStatus]int        `json:"rooms"`
	OccupancyRate   float64                   `json:"occupancyRate"`
	CompletionRate  float64                   `json:"completionRate"`
	ArrivalsToday   int                       `json:"arrivalsToday"`
	DeparturesToday int                       `json:"departuresToday"`
	OpenWorkOrders  int                       `json:"openWorkOrders"`
	Revenue         decimal.Decimal           `json:"revenue"`
}

// State is the full set of collections. The entities reference each other by
// room number only; nothing enforces that the references resolve.
type State struct {
	Reservations      []Reservation      `json:"reservations"`
	Rooms             []Room             `json:"rooms"`
	HousekeepingTasks []HousekeepingTask `json:"housekeepingTasks"`
	WorkOrders        []WorkOrder        `json:"workOrders"`
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := State{
		Reservations:      append([]Reservation(nil), s.Reservations...),
		Rooms:             make([]Room, len(s.Rooms)),
		HousekeepingTasks: append([]HousekeepingTask(nil), s.HousekeepingTasks...),
		WorkOrders:        append([]WorkOrder(nil), s.WorkOrders...),
	}
	for i, r := range s.Rooms {
		r.Amenities = append([]string(nil), r.Amenities...)
		out.Rooms[i] = r
	}
	return out
}
