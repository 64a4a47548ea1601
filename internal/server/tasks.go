package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

func registerTasks(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create housekeeping task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*output[domain.HousekeepingTask], error) {
		t, err := e.CreateTask(ctx, engine.TaskInput{
			RoomNumber:    input.Body.RoomNumber,
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
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List housekeeping tasks",
	}, func(ctx context.Context, input *struct {
		Status     string `query:"status" enum:"pending,in-progress,completed,delayed"`
		RoomNumber string `query:"room_number"`
	}) (*output[[]domain.HousekeepingTask], error) {
		return reply(e.ListTasks(engine.TaskFilter{Status: domain.TaskStatus(input.Status), RoomNumber: input.RoomNumber})), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get housekeeping task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*output[domain.HousekeepingTask], error) {
		t, err := e.GetTask(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return reply(t), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "advance-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/advance",
		Summary:     "Move a task to its next status",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   string             `path:"id"`
		Body AdvanceTaskRequest `json:"body"`
	}) (*output[domain.HousekeepingTask], error) {
		t, err := e.Advance(ctx, input.ID, domain.TaskStatus(input.Body.Status))
		if err != nil {
			return nil, handleError(err)
		}
		return reply(t), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-overdue-tasks",
		Method:      http.MethodPost,
		Path:        "/tasks/mark-overdue",
		Summary:     "Flag in-progress tasks past their estimate as delayed",
	}, func(ctx context.Context, _ *struct{}) (*output[OverdueResponse], error) {
		ids, err := e.MarkOverdue(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return reply(OverdueResponse{IDs: ids}), nil
	})
}
