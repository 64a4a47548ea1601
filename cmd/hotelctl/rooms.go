package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotelline/internal/app"
	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

func roomCmd() *cobra.Command {
	room := &cobra.Command{Use: "room", Short: "Manage rooms"}
	room.AddCommand(roomAddCmd())
	room.AddCommand(roomListCmd())
	room.AddCommand(roomShowCmd())
	room.AddCommand(roomAssignCmd())
	room.AddCommand(roomScheduleCleaningCmd())
	room.AddCommand(roomMaintenanceCmd())
	room.AddCommand(roomOutOfOrderCmd())
	room.AddCommand(roomActionCmd("begin-cleaning", "Vacate the room into cleaning", (*engine.Engine).BeginCleaning))
	room.AddCommand(roomActionCmd("complete-cleaning", "Mark a cleaning room available", (*engine.Engine).CompleteCleaning))
	room.AddCommand(roomActionCmd("resolve", "Resolve maintenance and close open work orders", (*engine.Engine).ResolveMaintenance))
	room.AddCommand(roomActionCmd("return", "Return an out-of-order room to service", (*engine.Engine).ReturnToService))
	return room
}

func roomAddCmd() *cobra.Command {
	var in engine.RoomInput
	var price, amenities string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an available room",
		RunE: func(cmd *cobra.Command, args []string) error {
			if price != "" {
				p, err := decimal.NewFromString(price)
				if err != nil {
					return fmt.Errorf("invalid --price %q: %w", price, err)
				}
				in.Price = &p
			}
			if amenities != "" {
				for _, a := range strings.Split(amenities, ",") {
					if a = strings.TrimSpace(a); a != "" {
						in.Amenities = append(in.Amenities, a)
					}
				}
			}
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := ws.Engine.AddRoom(ctx, in)
				if err != nil {
					return err
				}
				return printRoom(r)
			})
		},
	}
	cmd.Flags().StringVar(&in.Number, "number", "", "room number")
	cmd.Flags().IntVar(&in.Floor, "floor", 1, "floor")
	cmd.Flags().StringVar(&in.Type, "type", "", "room type")
	cmd.Flags().IntVar(&in.Capacity, "capacity", 2, "guest capacity")
	cmd.Flags().StringVar(&price, "price", "", "nightly price (defaults to the rate table)")
	cmd.Flags().StringVar(&amenities, "amenities", "", "comma separated amenities")
	return cmd
}

func roomListCmd() *cobra.Command {
	var f engine.RoomFilter
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Status = domain.RoomStatus(status)
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				rooms := ws.Engine.ListRooms(f)
				if viper.GetBool("json") {
					return printJSON(rooms)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Number", "Floor", "Type", "Status", "Guest", "Check-out", "Price"})
				for _, r := range rooms {
					tw.AppendRow(table.Row{r.Number, r.Floor, r.Type, r.Status, deref(r.Guest), deref(r.CheckOut), r.Price.StringFixed(2)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "match room number or guest")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	return cmd
}

func roomShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <room>",
		Short: "Show a room by id or number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := ws.Engine.GetRoom(args[0])
				if err != nil {
					return err
				}
				return printRoom(r)
			})
		},
	}
}

func roomAssignCmd() *cobra.Command {
	var guest, checkOut string
	cmd := &cobra.Command{
		Use:   "assign <room>",
		Short: "Assign a guest to an available room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := ws.Engine.AssignGuest(ctx, args[0], guest, checkOut)
				if err != nil {
					return err
				}
				return printRoom(r)
			})
		},
	}
	cmd.Flags().StringVar(&guest, "guest", "", "guest name")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "expected check-out date")
	return cmd
}

func roomScheduleCleaningCmd() *cobra.Command {
	var in engine.CleaningInput
	var taskType, priority string
	cmd := &cobra.Command{
		Use:   "schedule-cleaning <room>",
		Short: "Queue a housekeeping task; the room status is unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = domain.TaskType(taskType)
			in.Priority = domain.TaskPriority(priority)
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				t, err := ws.Engine.ScheduleCleaning(ctx, args[0], in)
				if err != nil {
					return err
				}
				return printTask(t)
			})
		},
	}
	cmd.Flags().StringVar(&taskType, "type", string(domain.TaskCheckoutCleaning), "task type")
	cmd.Flags().StringVar(&in.AssignedTo, "assignee", "", "housekeeper")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "priority")
	cmd.Flags().IntVar(&in.EstimatedTime, "minutes", 30, "estimated minutes")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	return cmd
}

func roomMaintenanceCmd() *cobra.Command {
	var in engine.MaintenanceInput
	var priority string
	cmd := &cobra.Command{
		Use:   "maintenance <room>",
		Short: "Report an issue and open a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Priority = domain.TaskPriority(priority)
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, wo, err := ws.Engine.ReportMaintenance(ctx, args[0], in)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"room": r, "workOrder": wo})
				}
				fmt.Printf("room %s is now %s, work order %s opened\n", r.Number, r.Status, wo.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Issue, "issue", "", "issue category")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "priority")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	return cmd
}

func roomOutOfOrderCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "out-of-order <room>",
		Short: "Take a room that is not occupied out of service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				r, err := ws.Engine.SetOutOfOrder(ctx, args[0], reason)
				if err != nil {
					return err
				}
				return printRoom(r)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason")
	return cmd
}

type roomAction func(*engine.Engine, context.Context, string) (domain.Room, error)

func roomActionCmd(use, short string, apply roomAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <room>",
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
				fmt.Printf("room %s is now %s\n", r.Number, r.Status)
				return nil
			})
		},
	}
}

func workOrdersCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "work-orders",
		Short: "List maintenance work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				items := ws.Engine.ListWorkOrders(domain.WorkOrderStatus(status))
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Room", "Issue", "Priority", "Status", "Reported", "Resolved"})
				for _, wo := range items {
					tw.AppendRow(table.Row{wo.ID, wo.RoomNumber, wo.Issue, wo.Priority, wo.Status, wo.ReportedAt, deref(wo.ResolvedAt)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "open or resolved")
	return cmd
}

func printRoom(r domain.Room) error {
	if viper.GetBool("json") {
		return printJSON(r)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendRows([]table.Row{
		{"ID", r.ID},
		{"Number", r.Number},
		{"Floor", r.Floor},
		{"Type", r.Type},
		{"Status", r.Status},
		{"Guest", deref(r.Guest)},
		{"Check-out", deref(r.CheckOut)},
		{"Capacity", r.Capacity},
		{"Amenities", strings.Join(r.Amenities, ", ")},
		{"Price", r.Price.StringFixed(2)},
		{"Last cleaned", r.LastCleaned},
		{"Maintenance", deref(r.MaintenanceNotes)},
		{"Out of order", deref(r.OutOfOrderReason)},
	})
	tw.Render()
	return nil
}
