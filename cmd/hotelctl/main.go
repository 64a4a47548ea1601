package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"hotelline/internal/app"
	"hotelline/internal/config"
	"hotelline/internal/db"
	"hotelline/internal/domain"
	"hotelline/internal/engine"
	"hotelline/internal/jobs"
	"hotelline/internal/logging"
	"hotelline/internal/migrate"
	"hotelline/internal/repo"
	"hotelline/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "hotelctl",
	Short: "Hotel reservation and room state CLI",
	Long: `hotelctl manages a hotel workspace: reservations, rooms, housekeeping tasks
and maintenance work orders.
- Workspace: hotel.yml (rates, timezone, schedules) plus .hotel/ holding state.json
  (the current collections) and journal.db (every applied change).
- Reservations: pending -> confirmed -> checked-in -> checked-out, cancelled as an exit.
- Rooms: available, occupied, cleaning, maintenance, out-of-order.
- Tasks: pending -> in-progress -> completed; overdue in-progress tasks become delayed.
- Event log: view with 'hotelctl log tail'.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("HOTEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "front-desk", "actor identifier recorded in the journal")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level for CLI commands")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(reservationCmd())
	rootCmd.AddCommand(roomCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(workOrdersCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func initCmd() *cobra.Command {
	var name string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create hotel.yml and the journal in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(name)), 0o644); err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			applied, err := migrate.Migrate(cmd.Context(), conn)
			if err != nil {
				return err
			}
			fmt.Printf("Initialized %s (%d migrations applied)\n", path, applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Hotel", "hotel name")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing hotel.yml")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Inspect hotel.yml"}
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSON(c)
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate hotel.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(viper.GetString("workspace")); err != nil {
				return err
			}
			fmt.Println("config ok")
			return nil
		},
	})
	return cfg
}

func summaryCmd() *cobra.Command {
	var today string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Dashboard counts, occupancy and revenue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				s := ws.Engine.Summary(today)
				if viper.GetBool("json") {
					return printJSON(s)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Metric", "Value"})
				tw.AppendRow(table.Row{"Today", s.Today})
				for _, status := range domain.ReservationStatuses {
					tw.AppendRow(table.Row{"Reservations " + string(status), s.Reservations[status]})
				}
				for _, status := range domain.RoomStatuses {
					tw.AppendRow(table.Row{"Rooms " + string(status), s.Rooms[status]})
				}
				tw.AppendRow(table.Row{"Occupancy", fmt.Sprintf("%.1f%%", s.OccupancyRate*100)})
				tw.AppendRow(table.Row{"Housekeeping completion", fmt.Sprintf("%.1f%%", s.CompletionRate*100)})
				tw.AppendRow(table.Row{"Arrivals today", s.ArrivalsToday})
				tw.AppendRow(table.Row{"Departures today", s.DeparturesToday})
				tw.AppendRow(table.Row{"Open work orders", s.OpenWorkOrders})
				tw.AppendRow(table.Row{"Revenue", s.Revenue.StringFixed(2) + " " + ws.Config.Pricing.Currency})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "reference date (YYYY-MM-DD), defaults to today")
	return cmd
}

func logCmd() *cobra.Command {
	lg := &cobra.Command{Use: "log", Short: "Inspect the event journal"}
	lg.AddCommand(logTailCmd())
	return lg
}

func logTailCmd() *cobra.Command {
	var f repo.EventFilters
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return readWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				events, err := ws.Repo.LatestEvents(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Time", "Type", "Entity", "Actor", "Payload"})
				for _, e := range events {
					entity := e.EntityKind
					if e.EntityID != "" {
						entity += "/" + e.EntityID
					}
					tw.AppendRow(table.Row{e.ID, e.TS, e.Type, entity, e.ActorID, e.Payload})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&f.Limit, "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&f.EntityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&f.EntityID, "entity-id", "", "entity id")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	var webhookInterval time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ws, err := app.Open(ctx, viper.GetString("workspace"), app.Options{LogFormat: logging.JSON})
			if err != nil {
				return err
			}
			defer ws.Close()
			logger := ws.Logger

			sched := jobs.New(logger)
			if err := sched.DelaySweep(engine.WithActor(ctx, "housekeeping-sweep"), ws.Config.Housekeeping.DelaySweep, ws.Engine); err != nil {
				return err
			}
			if err := sched.Autosave(ctx, ws.Config.Snapshot.Autosave, ws); err != nil {
				return err
			}
			sched.Start()

			dispatcher := server.NewDispatcher(ws.Config, ws.Repo, logger)
			if err := dispatcher.Prime(ctx); err != nil {
				return err
			}
			go dispatcher.Run(ctx, webhookInterval)

			handler, err := server.New(server.Config{Engine: ws.Engine, Repo: ws.Repo, BasePath: basePath, Logger: logger})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			fmt.Printf("Serving %s API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at %s/docs)\n",
				ws.Config.Hotel.Name, addr, basePath, basePath, basePath)
			logger.Info("server.start", zap.String("addr", addr), zap.Int("jobs", sched.Jobs()))
			serveErr := srv.ListenAndServe()

			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
			if _, err := ws.Save(stopCtx); err != nil {
				logger.Error("snapshot.save_failed", zap.Error(err))
				if serveErr == nil || errors.Is(serveErr, http.ErrServerClosed) {
					return err
				}
			}
			if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				return serveErr
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	cmd.Flags().DurationVar(&webhookInterval, "webhook-interval", 2*time.Second, "webhook dispatch interval")
	return cmd
}

// --- helpers ---

// withWorkspace runs a mutating operation and saves the snapshot when it
// succeeds.
func withWorkspace(ctx context.Context, fn func(context.Context, *app.Workspace) error) error {
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()
	ctx = engine.WithActor(ctx, viper.GetString("actor-id"))
	if err := fn(ctx, ws); err != nil {
		return err
	}
	_, err = ws.Save(ctx)
	return err
}

func readWorkspace(ctx context.Context, fn func(context.Context, *app.Workspace) error) error {
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(ctx, ws)
}

func openWorkspace(ctx context.Context) (*app.Workspace, error) {
	return app.Open(ctx, viper.GetString("workspace"), app.Options{
		LogFormat: logging.Console,
		LogLevel:  viper.GetString("log-level"),
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
