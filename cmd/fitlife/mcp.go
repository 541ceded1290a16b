// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server and, optionally, a Prometheus metrics listener.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlife/internal/mcp"
	"github.com/harperreed/fitlife/internal/metrics"
	"github.com/spf13/cobra"
)

var mcpMetricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to read and manage workout plans through
a standardized protocol. The server communicates via stdin/stdout; logs go
to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "fitlife": {
        "command": "fitlife",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_students       List students with their counters
  list_muscle_groups  List the muscle group taxonomy
  assign_workout      Create a workout with exercises
  get_workout         Get a workout with its exercises
  list_workouts       List a student's workouts
  workout_for_date    Workout scheduled for a date
  mark_completed      Mark a workout finished
  next_workout        Next workout in a student's rotation
  delete_workout      Delete a workout

AVAILABLE RESOURCES:

  fitlife://groups     Muscle groups
  fitlife://students   Students with summary counters

METRICS:

  --metrics-addr :9090 (or FITLIFE_METRICS_ADDR) serves Prometheus metrics
  at /metrics while the server runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		addr := mcpMetricsAddr
		if addr == "" {
			addr = cfg.MetricsAddr
		}
		if addr != "" {
			go func() {
				if err := metrics.Serve(addr); err != nil {
					logger.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
				}
			}()
		}

		return server.Serve(ctx)
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.AddCommand(mcpCmd)
}
