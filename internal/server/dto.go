package server

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

// Request payloads

type CreateReservationRequest struct {
	ID              string `json:"id,omitempty"`
	GuestName       string `json:"guestName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CheckIn         string `json:"checkIn" example:"2025-09-23"`
	CheckOut        string `json:"checkOut" example:"2025-09-26"`
	RoomType        string `json:"roomType" example:"Suite"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type UpdateReservationRequest struct {
	GuestName       *string          `json:"guestName,omitempty"`
	Email           *string          `json:"email,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	CheckIn         *string          `json:"checkIn,omitempty"`
	CheckOut        *string          `json:"checkOut,omitempty"`
	RoomType        *string          `json:"roomType,omitempty"`
	RoomNumber      *string          `json:"roomNumber,omitempty"`
	Status          *string          `json:"status,omitempty" enum:"pending,confirmed,checked-in,checked-out,cancelled"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty" example:"12600"`
	Guests          *int             `json:"guests,omitempty"`
	SpecialRequests *string          `json:"specialRequests,omitempty"`
}

type BulkRequest struct {
	IDs   []string `json:"ids,omitempty"`
	Today string   `json:"today,omitempty" example:"2025-09-23"`
}

type CreateRoomRequest struct {
	ID        string           `json:"id,omitempty"`
	Number    string           `json:"number"`
	Floor     int              `json:"floor"`
	Type      string           `json:"type"`
	Capacity  int              `json:"capacity"`
	Amenities []string         `json:"amenities,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty" example:"4200"`
}

type AssignGuestRequest struct {
	GuestName string `json:"guestName"`
	CheckOut  string `json:"checkOut" example:"2025-09-26"`
}

type CleaningRequest struct {
	Type          string `json:"type" enum:"checkout-cleaning,maintenance-cleaning,deep-cleaning,inspection"`
	AssignedTo    string `json:"assignedTo"`
	Priority      string `json:"priority" enum:"low,medium,high,urgent"`
	EstimatedTime int    `json:"estimatedTime"`
	Notes         string `json:"notes,omitempty"`
}

type MaintenanceRequest struct {
	Issue       string `json:"issue"`
	Priority    string `json:"priority" enum:"low,medium,high,urgent"`
	Description string `json:"description"`
}

type OutOfOrderRequest struct {
	Reason string `json:"reason"`
}

type CreateTaskRequest struct {
	RoomNumber    string `json:"roomNumber"`
	Type          string `json:"type" enum:"checkout-cleaning,maintenance-cleaning,deep-cleaning,inspection"`
	AssignedTo    string `json:"assignedTo"`
	Priority      string `json:"priority" enum:"low,medium,high,urgent"`
	EstimatedTime int    `json:"estimatedTime"`
	Notes         string `json:"notes,omitempty"`
}

type AdvanceTaskRequest struct {
	Status string `json:"status" enum:"pending,in-progress,completed,delayed"`
}

// Response payloads

type MaintenanceResponse struct {
	Room      domain.Room      `json:"room"`
	WorkOrder domain.WorkOrder `json:"workOrder"`
}

type OverdueResponse struct {
	IDs []string `json:"ids"`
}

type EventResponse struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id,omitempty"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload"`
}

type paginatedEvents struct {
	Items      []EventResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// Conversion helpers

func reservationInput(in CreateReservationRequest) engine.ReservationInput {
	return engine.ReservationInput{
		ID:              in.ID,
		GuestName:       in.GuestName,
		Email:           in.Email,
		Phone:           in.Phone,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		RoomType:        in.RoomType,
		Guests:          in.Guests,
		SpecialRequests: in.SpecialRequests,
	}
}

func reservationPatch(in UpdateReservationRequest) engine.ReservationPatch {
	patch := engine.ReservationPatch{
		GuestName:       in.GuestName,
		Email:           in.Email,
		Phone:           in.Phone,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		RoomType:        in.RoomType,
		RoomNumber:      in.RoomNumber,
		TotalAmount:     in.TotalAmount,
		Guests:          in.Guests,
		SpecialRequests: in.SpecialRequests,
	}
	if in.Status != nil {
		status := domain.ReservationStatus(*in.Status)
		patch.Status = &status
	}
	return patch
}

func roomInput(in CreateRoomRequest) engine.RoomInput {
	return engine.RoomInput{
		ID:        in.ID,
		Number:    in.Number,
		Floor:     in.Floor,
		Type:      in.Type,
		Capacity:  in.Capacity,
		Amenities: in.Amenities,
		Price:     in.Price,
	}
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		TS:         e.TS,
		Type:       e.Type,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		Payload:    decodeJSONMap(e.Payload),
	}
}

// JSON helpers

func decodeJSONMap(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil
	}
	return obj
}
