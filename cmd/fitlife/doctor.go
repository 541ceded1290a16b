// ABOUTME: CLI commands for database health checks and copying data to a new database.
// ABOUTME: doctor verifies connectivity, schema columns, and seeded muscle groups.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlife/internal/config"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/spf13/cobra"
)

var migrateTo string

// requiredColumns lists columns added after the first release.
var requiredColumns = map[string][]string{
	"users":   {"id", "nome", "email", "password", "isProfessor", "cref"},
	"treinos": {"id", "aluno_email", "nomeTreino", "data", "calorias", "ordem", "professor_email"},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		faint := color.New(color.Faint)
		failed := 0

		check := func(name string, err error) {
			if err != nil {
				failed++
				color.Red("✗ %s", name)
				fmt.Printf("  %s\n", faint.Sprint(err))
				return
			}
			color.Green("✓ %s", name)
		}

		fmt.Printf("Database: %s\n", db.Path())
		check("database reachable", db.Ping(ctx))

		for _, table := range []string{"users", "treinos"} {
			check("table "+table, checkColumns(cmd, table))
		}
		for _, table := range []string{"grupos_musculares", "exercicios", "treinos_finalizados", "progresso_aluno"} {
			_, err := db.Columns(ctx, table)
			check("table "+table, err)
		}

		groups, err := db.ListMuscleGroups(ctx)
		if err == nil && len(groups) < len(models.AllMuscleGroups) {
			err = fmt.Errorf("%d of %d muscle groups seeded", len(groups), len(models.AllMuscleGroups))
		}
		check("muscle groups", err)

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func checkColumns(cmd *cobra.Command, table string) error {
	cols, err := db.Columns(cmd.Context(), table)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	var missing []string
	for _, c := range requiredColumns[table] {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all data into another database file",
	Long: `Copy every user, workout, exercise, completion, and progress row into a
new database file. The destination must not contain any accounts.

EXAMPLES:

  fitlife migrate --to ~/backup/fitlife.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == "" {
			return fmt.Errorf("--to is required")
		}

		dst, err := storage.Open(config.ExpandPath(migrateTo), storage.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(cmd.Context(), db, dst)
		if err != nil {
			return err
		}

		color.Green("✓ Migrated to %s", dst.Path())
		fmt.Printf("  Users: %d\n", summary.Users)
		fmt.Printf("  Workouts: %d\n", summary.Workouts)
		fmt.Printf("  Exercises: %d\n", summary.Exercises)
		fmt.Printf("  Completions: %d\n", summary.Completions)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination database file")

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(migrateCmd)
}
