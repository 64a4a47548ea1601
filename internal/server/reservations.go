package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

type reservationPath struct {
	ID string `path:"id"`
}

func registerReservations(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-reservation",
		Method:        http.MethodPost,
		Path:          "/reservations",
		Summary:       "Create reservation",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body CreateReservationRequest `json:"body"`
	}) (*output[domain.Reservation], error) {
		r, err := e.CreateReservation(ctx, reservationInput(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return reply(r), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reservations",
		Method:      http.MethodGet,
		Path:        "/reservations",
		Summary:     "List reservations",
	}, func(ctx context.Context, input *struct {
		Search   string `query:"search"`
		Status   string `query:"status" enum:"pending,confirmed,checked-in,checked-out,cancelled"`
		RoomType string `query:"room_type"`
	}) (*output[[]domain.Reservation], error) {
		return reply(e.ListReservations(engine.ReservationFilter{
			Search:   input.Search,
			Status:   domain.ReservationStatus(input.Status),
			RoomType: input.RoomType,
		})), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "quote-stay",
		Method:      http.MethodGet,
		Path:        "/reservations/quote",
		Summary:     "Price a stay without booking it",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		RoomType string `query:"room_type" required:"true"`
		CheckIn  string `query:"check_in" required:"true"`
		CheckOut string `query:"check_out" required:"true"`
	}) (*output[engine.Quote], error) {
		q, err := e.Quote(input.RoomType, input.CheckIn, input.CheckOut)
		if err != nil {
			return nil, handleError(err)
		}
		return reply(q), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-reservation",
		Method:      http.MethodGet,
		Path:        "/reservations/{id}",
		Summary:     "Get reservation",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *reservationPath) (*output[domain.Reservation], error) {
		r, err := e.GetReservation(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return reply(r), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-reservation",
		Method:      http.MethodPatch,
		Path:        "/reservations/{id}",
		Summary:     "Update reservation fields",
		Description: "Merges the given fields. The total is not recomputed; a status given here overrides the lifecycle.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                   `path:"id"`
		Body UpdateReservationRequest `json:"body"`
	}) (*output[domain.Reservation], error) {
		r, err := e.UpdateReservation(ctx, input.ID, reservationPatch(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return reply(r), nil
	})

	transitions := []struct {
		id, path, summary string
		apply             func(context.Context, string) (domain.Reservation, error)
	}{
		{"confirm-reservation", "/reservations/{id}/confirm", "Confirm a pending reservation", e.ConfirmReservation},
		{"check-in-reservation", "/reservations/{id}/check-in", "Check in a confirmed reservation", e.CheckIn},
		{"check-out-reservation", "/reservations/{id}/check-out", "Check out a checked-in reservation", e.CheckOut},
		{"cancel-reservation", "/reservations/{id}/cancel", "Cancel a reservation", e.CancelReservation},
	}
	for _, tr := range transitions {
		apply := tr.apply
		huma.Register(api, huma.Operation{
			OperationID: tr.id,
			Method:      http.MethodPost,
			Path:        tr.path,
			Summary:     tr.summary,
			Errors:      []int{http.StatusNotFound, http.StatusConflict},
		}, func(ctx context.Context, input *reservationPath) (*output[domain.Reservation], error) {
			r, err := apply(ctx, input.ID)
			if err != nil {
				return nil, handleError(err)
			}
			return reply(r), nil
		})
	}

	huma.Register(api, huma.Operation{
		OperationID: "bulk-check-in",
		Method:      http.MethodPost,
		Path:        "/reservations/bulk/check-in",
		Summary:     "Check in every due confirmed reservation",
		Description: "Without ids the whole collection is considered. Ineligible reservations are skipped.",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body *BulkRequest `json:"body,omitempty" required:"false"`
	}) (*output[engine.BulkResult], error) {
		res, err := e.BulkCheckIn(ctx, bulkOptions(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return reply(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "bulk-check-out",
		Method:      http.MethodPost,
		Path:        "/reservations/bulk/check-out",
		Summary:     "Check out every checked-in reservation",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body *BulkRequest `json:"body,omitempty" required:"false"`
	}) (*output[engine.BulkResult], error) {
		res, err := e.BulkCheckOut(ctx, bulkOptions(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return reply(res), nil
	})
}

func bulkOptions(in *BulkRequest) engine.BulkOptions {
	if in == nil {
		return engine.BulkOptions{}
	}
	return engine.BulkOptions{IDs: in.IDs, Today: in.Today}
}
