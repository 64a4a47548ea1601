package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotelline/internal/app"
	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage housekeeping tasks"}
	task.AddCommand(taskCreateCmd())
	task.AddCommand(taskListCmd())
	task.AddCommand(taskShowCmd())
	task.AddCommand(taskAdvanceCmd())
	task.AddCommand(taskMarkOverdueCmd())
	return task
}

func taskCreateCmd() *cobra.Command {
	var in engine.TaskInput
	var taskType, priority string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending housekeeping task",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = domain.TaskType(taskType)
			in.Priority = domain.TaskPriority(priority)
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				t, err := ws.Engine.CreateTask(ctx, in)
				if err != nil {
					return err
				}
				return printTask(t)
			})
		},
	}
	cmd.Flags().StringVar(&in.RoomNumber, "room", "", "room number")
	cmd.Flags().StringVar(&taskType, "type", string(domain.TaskCheckoutCleaning), "task type")
	cmd.Flags().StringVar(&in.AssignedTo, "assignee", "", "housekeeper")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "priority")
	cmd.Flags().IntVar(&in.EstimatedTime, "minutes", 30, "estimated minutes")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	return cmd
}

func taskListCmd() *cobra.Command {
	var f engine.TaskFilter
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List housekeeping tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Status = domain.TaskStatus(status)
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				tasks := ws.Engine.ListTasks(f)
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Room", "Type", "Assignee", "Priority", "Status", "Minutes", "Started"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{t.ID, t.RoomNumber, t.Type, t.AssignedTo, t.Priority, t.Status, t.EstimatedTime, deref(t.StartTime)})
				}
				tw.AppendFooter(table.Row{"", "", "", "", "", "completion", fmt.Sprintf("%.0f%%", engine.CompletionRate(tasks)*100), ""})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&f.RoomNumber, "room", "", "room number filter")
	return cmd
}

func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				t, err := ws.Engine.GetTask(args[0])
				if err != nil {
					return err
				}
				return printTask(t)
			})
		},
	}
}

func taskAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id> <in-progress|completed>",
		Short: "Move a task forward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				t, err := ws.Engine.Advance(ctx, args[0], domain.TaskStatus(args[1]))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				fmt.Printf("%s is now %s\n", t.ID, t.Status)
				return nil
			})
		},
	}
}

func taskMarkOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag in-progress tasks past their estimate as delayed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				ids, err := ws.Engine.MarkOverdue(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string][]string{"ids": ids})
				}
				fmt.Printf("%d tasks delayed\n", len(ids))
				for _, id := range ids {
					fmt.Println(" -", id)
				}
				return nil
			})
		},
	}
}

func printTask(t domain.HousekeepingTask) error {
	if viper.GetBool("json") {
		return printJSON(t)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendRows([]table.Row{
		{"ID", t.ID},
		{"Room", t.RoomNumber},
		{"Type", t.Type},
		{"Assignee", t.AssignedTo},
		{"Priority", t.Priority},
		{"Status", t.Status},
		{"Minutes", t.EstimatedTime},
		{"Started", deref(t.StartTime)},
		{"Completed", deref(t.CompletedAt)},
		{"Notes", t.Notes},
	})
	tw.Render()
	return nil
}
