// ABOUTME: Root Cobra command for fitlife CLI.
// ABOUTME: Opens config, logger, storage and session in PersistentPreRunE and closes them after.
package main

import (
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/config"
	"github.com/harperreed/fitlife/internal/logging"
	"github.com/harperreed/fitlife/internal/service"
	"github.com/harperreed/fitlife/internal/session"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// skipSetup marks commands that manage their own resources.
const skipSetup = "fitlife/skip-setup"

var (
	cfg    *config.Config
	logger = zerolog.Nop()
	db     *storage.DB
	sess   *session.Session

	accounts  *service.AccountService
	professor *service.ProfessorService
	student   *service.StudentService
)

var rootCmd = &cobra.Command{
	Use:   "fitlife",
	Short: "Workout plans for professors and their students",
	Long: `Fitlife is a CLI tool for professors who assign workout plans and the
students who follow them.

ROLES:

  Professor   registers with a license code (CREF), assigns and edits workouts
  Student     sees today's workout, marks workouts done, follows the rotation

QUICK START:

  $ fitlife init                                           # Create the database
  $ fitlife register "Coach" coach@gym.com --role professor --cref 123-G/SP
  $ fitlife register "Ana" ana@gym.com                     # Register a student
  $ fitlife login coach@gym.com -p secret
  $ fitlife workout assign ana@gym.com "Leg Day" \
      -e "Squat:Legs:4:10:90" -e "Lunge:Legs"
  $ fitlife login ana@gym.com -p secret
  $ fitlife workout today                                  # What to train now
  $ fitlife workout done 1                                 # Mark it finished
  $ fitlife workout next                                   # Next in rotation

MCP INTEGRATION:

  Run 'fitlife mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "fitlife": { "command": "fitlife", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in SQLite at ~/.local/share/fitlife/fitlife.db and the login
  session next to it. Override with FITLIFE_DATA_DIR or 'fitlife init --data-dir'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Annotations[skipSetup] != "" {
			return nil
		}
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute runs the root command. Resources are released even when the
// command fails, since cobra skips PersistentPostRunE on error.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, teardown())
}

func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger = logging.New(cfg.GetLogLevel(), cfg.LogFormat)

	db, err = cfg.OpenStorage(logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sess, err = cfg.OpenSession()
	if err != nil {
		_ = db.Close()
		db = nil
		return fmt.Errorf("failed to open session: %w", err)
	}

	accounts = service.NewAccountService(db, sess, logger)
	professor = service.NewProfessorService(db, sess, logger)
	student = service.NewStudentService(db, sess, logger)
	return nil
}

func teardown() error {
	var errs []error
	if sess != nil {
		errs = append(errs, sess.Close())
		sess = nil
	}
	if db != nil {
		errs = append(errs, db.Close())
		db = nil
	}
	return errors.Join(errs...)
}
