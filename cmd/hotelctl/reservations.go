package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotelline/internal/app"
	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

func reservationCmd() *cobra.Command {
	rsv := &cobra.Command{Use: "reservation", Aliases: []string{"rsv"}, Short: "Manage reservations"}
	rsv.AddCommand(reservationCreateCmd())
	rsv.AddCommand(reservationListCmd())
	rsv.AddCommand(reservationShowCmd())
	rsv.AddCommand(reservationUpdateCmd())
	rsv.AddCommand(reservationQuoteCmd())
	rsv.AddCommand(reservationTransitionCmd("confirm", "Confirm a pending reservation", (*engine.Engine).ConfirmReservation))
	rsv.AddCommand(reservationTransitionCmd("check-in", "Check in a confirmed reservation", (*engine.Engine).CheckIn))
	rsv.AddCommand(reservationTransitionCmd("check-out", "Check out a checked-in reservation", (*engine.Engine).CheckOut))
	rsv.AddCommand(reservationTransitionCmd("cancel", "Cancel a reservation", (*engine.Engine).CancelReservation))
	rsv.AddCommand(reservationBulkCmd("bulk-check-in", "Check in every confirmed reservation that has arrived", true))
	rsv.AddCommand(reservationBulkCmd("bulk-check-out", "Check out every checked-in reservation", false))
	return rsv
}

func reservationCreateCmd() *cobra.Command {
	var in engine.ReservationInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := ws.Engine.CreateReservation(ctx, in)
				if err != nil {
					return err
				}
				return printReservation(r)
			})
		},
	}
	cmd.Flags().StringVar(&in.ID, "id", "", "reservation id (generated when empty)")
	cmd.Flags().StringVar(&in.GuestName, "guest", "", "guest name")
	cmd.Flags().StringVar(&in.Email, "email", "", "guest email")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "guest phone")
	cmd.Flags().StringVar(&in.CheckIn, "check-in", "", "arrival date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.CheckOut, "check-out", "", "departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.RoomType, "room-type", "", "room type from the rate table")
	cmd.Flags().IntVar(&in.Guests, "guests", 1, "number of guests")
	cmd.Flags().StringVar(&in.SpecialRequests, "requests", "", "special requests")
	return cmd
}

func reservationListCmd() *cobra.Command {
	var f engine.ReservationFilter
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Status = domain.ReservationStatus(status)
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				items := ws.Engine.ListReservations(f)
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Guest", "Check-in", "Check-out", "Room type", "Room", "Status", "Total"})
				for _, r := range items {
					tw.AppendRow(table.Row{r.ID, r.GuestName, r.CheckIn, r.CheckOut, r.RoomType, deref(r.RoomNumber), r.Status, r.TotalAmount.StringFixed(2)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "match guest name, email or id")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&f.RoomType, "room-type", "", "room type filter")
	return cmd
}

func reservationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := ws.Engine.GetReservation(args[0])
				if err != nil {
					return err
				}
				return printReservation(r)
			})
		},
	}
}

func reservationUpdateCmd() *cobra.Command {
	var guest, email, phone, checkIn, checkOut, roomType, roomNumber, status, total, requests string
	var guests int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit reservation fields; the total is only changed with --total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch engine.ReservationPatch
			flags := cmd.Flags()
			set := func(name string, dst **string, v string) {
				if flags.Changed(name) {
					val := v
					*dst = &val
				}
			}
			set("guest", &patch.GuestName, guest)
			set("email", &patch.Email, email)
			set("phone", &patch.Phone, phone)
			set("check-in", &patch.CheckIn, checkIn)
			set("check-out", &patch.CheckOut, checkOut)
			set("room-type", &patch.RoomType, roomType)
			set("room", &patch.RoomNumber, roomNumber)
			set("requests", &patch.SpecialRequests, requests)
			if flags.Changed("status") {
				s := domain.ReservationStatus(status)
				patch.Status = &s
			}
			if flags.Changed("guests") {
				patch.Guests = &guests
			}
			if flags.Changed("total") {
				amount, err := decimal.NewFromString(total)
				if err != nil {
					return fmt.Errorf("invalid --total %q: %w", total, err)
				}
				patch.TotalAmount = &amount
			}
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := ws.Engine.UpdateReservation(ctx, args[0], patch)
				if err != nil {
					return err
				}
				return printReservation(r)
			})
		},
	}
	cmd.Flags().StringVar(&guest, "guest", "", "guest name")
	cmd.Flags().StringVar(&email, "email", "", "guest email")
	cmd.Flags().StringVar(&phone, "phone", "", "guest phone")
	cmd.Flags().StringVar(&checkIn, "check-in", "", "arrival date")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "departure date")
	cmd.Flags().StringVar(&roomType, "room-type", "", "room type")
	cmd.Flags().StringVar(&roomNumber, "room", "", "room number (empty clears it)")
	cmd.Flags().StringVar(&status, "status", "", "status override")
	cmd.Flags().StringVar(&total, "total", "", "total amount override")
	cmd.Flags().IntVar(&guests, "guests", 0, "number of guests")
	cmd.Flags().StringVar(&requests, "requests", "", "special requests")
	return cmd
}

func reservationQuoteCmd() *cobra.Command {
	var roomType, checkIn, checkOut string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a stay without booking it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				q, err := ws.Engine.Quote(roomType, checkIn, checkOut)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(q)
				}
				fmt.Printf("%s, %d nights x %s = %s %s\n", q.RoomType, q.Nights, q.Rate.StringFixed(2), q.TotalAmount.StringFixed(2), ws.Config.Pricing.Currency)
				if !q.KnownType {
					fmt.Println("warning: room type is not in the rate table")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&roomType, "room-type", "", "room type")
	cmd.Flags().StringVar(&checkIn, "check-in", "", "arrival date")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "departure date")
	return cmd
}

type reservationTransition func(*engine.Engine, context.Context, string) (domain.Reservation, error)

func reservationTransitionCmd(use, short string, apply reservationTransition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := apply(ws.Engine, ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(r)
				}
				fmt.Printf("%s is now %s\n", r.ID, r.Status)
				return nil
			})
		},
	}
}

func reservationBulkCmd(use, short string, checkIn bool) *cobra.Command {
	var opts engine.BulkOptions
	cmd := &cobra.Command{
		Use:   use + " [id...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.IDs = args
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				var res engine.BulkResult
				var err error
				if checkIn {
					res, err = ws.Engine.BulkCheckIn(ctx, opts)
				} else {
					res, err = ws.Engine.BulkCheckOut(ctx, opts)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				fmt.Printf("%d reservations updated\n", res.Count)
				for _, id := range res.Affected {
					fmt.Println(" -", id)
				}
				return nil
			})
		},
	}
	if checkIn {
		cmd.Flags().StringVar(&opts.Today, "today", "", "reference date (YYYY-MM-DD), defaults to today")
	}
	return cmd
}

func printReservation(r domain.Reservation) error {
	if viper.GetBool("json") {
		return printJSON(r)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendRows([]table.Row{
		{"ID", r.ID},
		{"Guest", r.GuestName},
		{"Email", r.Email},
		{"Phone", r.Phone},
		{"Stay", r.CheckIn + " -> " + r.CheckOut},
		{"Room type", r.RoomType},
		{"Room", deref(r.RoomNumber)},
		{"Guests", r.Guests},
		{"Status", r.Status},
		{"Total", r.TotalAmount.StringFixed(2)},
		{"Requests", r.SpecialRequests},
	})
	tw.Render()
	return nil
}
