package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

type roomPath struct {
	Room string `path:"room" doc:"Room id or number"`
}

func registerRooms(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-room",
		Method:        http.MethodPost,
		Path:          "/rooms",
		Summary:       "Register a room",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateRoomRequest `json:"body"`
	}) (*output[domain.Room], error) {
		r, err := e.AddRoom(ctx, roomInput(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return reply(r), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-rooms",
		Method:      http.MethodGet,
		Path:        "/rooms",
		Summary:     "List rooms",
	}, func(ctx context.Context, input *struct {
		Search string `query:"search"`
		Status string `query:"status" enum:"available,occupied,cleaning,maintenance,out-of-order"`
	}) (*output[[]domain.Room], error) {
		return reply(e.ListRooms(engine.RoomFilter{Search: input.Search, Status: domain.RoomStatus(input.Status)})), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-room",
		Method:      http.MethodGet,
		Path:        "/rooms/{room}",
		Summary:     "Get room",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *roomPath) (*output[domain.Room], error) {
		r, err := e.GetRoom(input.Room)
		if err != nil {
			return nil, handleError(err)
		}
		return reply(r), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-guest",
		Method:      http.MethodPost,
		Path:        "/rooms/{room}/assign",
		Summary:     "Assign a guest to an available room",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Room string             `path:"room"`
		Body AssignGuestRequest `json:"body"`
	}) (*output[domain.Room], error) {
		r, err := e.AssignGuest(ctx, input.Room, input.Body.GuestName, input.Body.CheckOut)
		if err != nil {
			return nil, handleError(err)
		}
		return reply(r), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "schedule-cleaning",
		Method:        http.MethodPost,
		Path:          "/rooms/{room}/cleaning",
		Summary:       "Queue a housekeeping task for the room",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Room string          `path:"room"`
		Body CleaningRequest `json:"body"`
	}) (*output[domain.HousekeepingTask], error) {
		t, err := e.ScheduleCleaning(ctx, input.Room, engine.CleaningInput{
			Type:          domain.TaskType(input.Body.Type),
			AssignedTo:    input.Body.AssignedTo,
			Priority:      domain.TaskPriority(input.Body.Priority),
			EstimatedTime: input.Body.EstimatedTime,
			Notes:         input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return reply(t), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "report-maintenance",
		Method:      http.MethodPost,
		Path:        "/rooms/{room}/maintenance",
		Summary:     "Put the room under maintenance and open a work order",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Room string             `path:"room"`
		Body MaintenanceRequest `json:"body"`
	}) (*output[MaintenanceResponse], error) {
		r, wo, err := e.ReportMaintenance(ctx, input.Room, engine.MaintenanceInput{
			Issue:       input.Body.Issue,
			Priority:    domain.TaskPriority(input.Body.Priority),
			Description: input.Body.Description,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return reply(MaintenanceResponse{Room: r, WorkOrder: wo}), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-out-of-order",
		Method:      http.MethodPost,
		Path:        "/rooms/{room}/out-of-order",
		Summary:     "Take the room out of service",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Room string            `path:"room"`
		Body OutOfOrderRequest `json:"body"`
	}) (*output[domain.Room], error) {
		r, err := e.SetOutOfOrder(ctx, input.Room, input.Body.Reason)
		if err != nil {
			return nil, handleError(err)
		}
		return reply(r), nil
	})

	actions := []struct {
		id, path, summary string
		apply             func(context.Context, string) (domain.Room, error)
	}{
		{"begin-cleaning", "/rooms/{room}/begin-cleaning", "Vacate the room into cleaning", e.BeginCleaning},
		{"complete-cleaning", "/rooms/{room}/complete-cleaning", "Mark cleaning done", e.CompleteCleaning},
		{"resolve-maintenance", "/rooms/{room}/resolve-maintenance", "Close maintenance and its work orders", e.ResolveMaintenance},
		{"return-to-service", "/rooms/{room}/return-to-service", "Return an out-of-order room to service", e.ReturnToService},
	}
	for _, a := range actions {
		apply := a.apply
		huma.Register(api, huma.Operation{
			OperationID: a.id,
			Method:      http.MethodPost,
			Path:        a.path,
			Summary:     a.summary,
			Errors:      []int{http.StatusNotFound, http.StatusConflict},
		}, func(ctx context.Context, input *roomPath) (*output[domain.Room], error) {
			r, err := apply(ctx, input.Room)
			if err != nil {
				return nil, handleError(err)
			}
			return reply(r), nil
		})
	}

	huma.Register(api, huma.Operation{
		OperationID: "list-work-orders",
		Method:      http.MethodGet,
		Path:        "/work-orders",
		Summary:     "List maintenance work orders",
	}, func(ctx context.Context, input *struct {
		Status string `query:"status" enum:"open,resolved"`
	}) (*output[[]domain.WorkOrder], error) {
		return reply(e.ListWorkOrders(domain.WorkOrderStatus(input.Status))), nil
	})
}
