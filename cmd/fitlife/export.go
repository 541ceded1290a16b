// ABOUTME: CLI commands for exporting and importing fitlife data.
// ABOUTME: Supports JSON (backup/restore), YAML, and Excel export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export fitlife data",
	Long: `Export all fitlife data in various formats.

FORMATS:

  json   Full JSON export including credentials (suitable for backup/restore)
  yaml   YAML export grouped by student, without passwords
  xlsx   Excel workbook with Users and Workouts sheets (requires --output)

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  fitlife export json                  # Export all data as JSON
  fitlife export json -o backup.json   # Save to file
  fitlife export yaml                  # Export as YAML
  fitlife export xlsx -o gym.xlsx      # Spreadsheet for sharing`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "xlsx"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		ctx := cmd.Context()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = db.ExportJSON(ctx)
		case "yaml":
			data, err = db.ExportYAML(ctx)
		case "xlsx":
			if exportOutput == "" {
				return fmt.Errorf("xlsx export needs --output")
			}
			data, err = db.ExportXLSX(ctx)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or xlsx)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import fitlife data from JSON",
	Long: `Import fitlife data from a JSON backup file.

This imports users, workouts, exercises, completions, and progress from a
previously exported JSON file. Workout ids are reassigned. The import is all
or nothing: an email that already exists aborts it without changes.

EXAMPLES:

  fitlife import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := db.ImportJSON(cmd.Context(), data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
