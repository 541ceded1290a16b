// ABOUTME: CLI commands for accounts: init, register, login, logout and whoami.
// ABOUTME: The login session persists between invocations in the data directory.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlife/internal/config"
	"github.com/harperreed/fitlife/internal/logging"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/service"
	"github.com/spf13/cobra"
)

var (
	initDataDir string

	registerPassword string
	registerConfirm  string
	registerRole     string
	registerCref     string

	loginPassword string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and seed muscle groups",
	Long: `Create the fitlife database and seed the muscle group taxonomy.

Running init again is safe: existing tables and rows are kept and missing
columns are added.

EXAMPLES:

  fitlife init                         # Use ~/.local/share/fitlife
  fitlife init --data-dir ~/gym-data   # Store data elsewhere (saved to config)`,
	Annotations: map[string]string{skipSetup: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if initDataDir != "" {
			c.DataDir = initDataDir
			if err := c.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
		}

		log := logging.New(c.GetLogLevel(), c.LogFormat)
		d, err := c.OpenStorage(log)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = d.Close() }()

		groups, err := d.ListMuscleGroups(cmd.Context())
		if err != nil {
			return err
		}

		color.Green("✓ Database ready at %s", d.Path())
		fmt.Printf("  %d muscle groups\n", len(groups))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <name> <email>",
	Short: "Create an account and log in",
	Long: `Create a student or professor account. The new account is logged in.

Professors must pass a license code with --cref; students must not.

EXAMPLES:

  fitlife register "Ana Lima" ana@gym.com -p secret1
  fitlife register "Coach" coach@gym.com -p secret1 --role professor --cref 123-G/SP`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := models.ParseRole(registerRole)
		if !ok {
			return fmt.Errorf("unknown role: %s (use student or professor)", registerRole)
		}
		confirm := registerConfirm
		if !cmd.Flags().Changed("confirm") {
			confirm = registerPassword
		}

		u, err := accounts.Register(cmd.Context(), service.Registration{
			Name:            args[0],
			Email:           args[1],
			Password:        registerPassword,
			ConfirmPassword: confirm,
			Role:            role,
			License:         registerCref,
		})
		if err != nil {
			return err
		}

		color.Green("✓ Registered %s (%s)", u.Email, u.Role)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := accounts.Login(cmd.Context(), args[0], loginPassword)
		if err != nil {
			return err
		}
		color.Green("✓ Logged in as %s", u.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(u.Role.String()))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := accounts.Logout(); err != nil {
			return err
		}
		color.Green("✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := accounts.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", u.Name, u.Email)
		line := "Role: " + u.Role.String()
		if u.License != nil {
			line += "  CREF: " + *u.License
		}
		fmt.Println(color.New(color.Faint).Sprint(line))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initDataDir, "data-dir", "", "data directory (saved to config)")

	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password (at least 6 characters)")
	registerCmd.Flags().StringVar(&registerConfirm, "confirm", "", "password confirmation (default: same as --password)")
	registerCmd.Flags().StringVar(&registerRole, "role", "student", "student or professor")
	registerCmd.Flags().StringVar(&registerCref, "cref", "", "professor license code")

	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")

	rootCmd.AddCommand(initCmd, registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
