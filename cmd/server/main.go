/*
main.go - Application entry point

PURPOSE:
  Starts the punch-engine hosting server, or runs a one-shot payroll
  calculation against the same database. Configuration comes from an
  optional YAML file; every tunable has a default.

COMMANDS:
  serve   Start the HTTP server (graceful shutdown on SIGINT/SIGTERM)
  calc    Assemble one payroll period and print the result as JSON

FLAGS:
  --config   Path to YAML config (optional)
  --db       SQLite database path (overrides config)
  --port     HTTP port (serve; overrides config)
  --start    Period start, RFC3339 (calc)
  --end      Period end, RFC3339 (calc)

EXAMPLES:
  server serve --db=./data/punchclock.db --port=3000
  server calc --db=./data/punchclock.db \
      --start=2026-08-24T00:00:00Z --end=2026-08-30T23:59:59Z

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: The YAML schema
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/punch-engine/api"
	"github.com/warp/punch-engine/config"
	"github.com/warp/punch-engine/hours"
	"github.com/warp/punch-engine/payroll"
	"github.com/warp/punch-engine/store/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "server",
		Short:         "Punch engine: time-clock normalization, sessions, and payroll",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newCalcCmd(&configPath))
	return root
}

// =============================================================================
// SERVE
// =============================================================================

func newServeCmd(configPath *string) *cobra.Command {
	var (
		port   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if dbPath != "" {
				cfg.Server.DBPath = dbPath
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := sqlite.New(cfg.Server.DBPath)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			defer store.Close()

			handler := api.NewHandler(store, cfg, logger)
			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      api.NewRouter(handler),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				logger.Info("server starting",
					zap.Int("port", cfg.Server.Port),
					zap.String("db", cfg.Server.DBPath),
					zap.String("timezone", cfg.Timezone),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("server failed", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("forced shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	return cmd
}

// =============================================================================
// CALC - One-shot payroll run
// =============================================================================

func newCalcCmd(configPath *string) *cobra.Command {
	var (
		dbPath   string
		startStr string
		endStr   string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Assemble one payroll period and print JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Server.DBPath = dbPath
			}

			start, err := time.Parse(time.RFC3339, startStr)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			end, err := time.Parse(time.RFC3339, endStr)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			store, err := sqlite.New(cfg.Server.DBPath)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			employees, err := store.ListEmployees(ctx)
			if err != nil {
				return err
			}

			input := payroll.RunInput{
				Period:   hours.Period{Start: start, End: end},
				Location: cfg.Location(),
			}
			for _, emp := range employees {
				punches, err := store.ListPunches(ctx, emp.ID, start, end)
				if err != nil {
					return err
				}
				tips, err := store.ListTips(ctx, emp.ID, start, end)
				if err != nil {
					return err
				}
				input.Employees = append(input.Employees, payroll.EmployeeInput{
					EmployeeID: emp.ID,
					Profile:    emp.Profile,
					Punches:    punches,
					Tips:       tips,
				})
			}

			result, err := payroll.NewAssembler(cfg.AssemblerOptions()).Run(input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&startStr, "start", "", "period start (RFC3339)")
	cmd.Flags().StringVar(&endStr, "end", "", "period end (RFC3339)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}
