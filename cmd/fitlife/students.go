// ABOUTME: CLI commands for professors managing students, plus the muscle group list.
// ABOUTME: Student deletion cascades to the student's workouts and progress.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List students (professors only)",
	Long: `List every registered student with their dashboard counters.

OUTPUT FORMAT:

  Each line shows: EMAIL  NAME  ASSIGNED  COMPLETED  KCAL`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		students, err := professor.ListStudents(cmd.Context())
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Println("No students found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range students {
			sum, err := db.GetStudentSummary(cmd.Context(), s.Email)
			if err != nil {
				return fmt.Errorf("failed to load summary for %s: %w", s.Email, err)
			}
			fmt.Printf("%s %s %s\n",
				padRight(s.Email, 28),
				padRight(truncate(s.Name, 24), 24),
				faint.Sprintf("%d assigned, %d done, %d kcal", sum.Assigned, sum.Completed, sum.CaloriesBurned))
		}
		return nil
	},
}

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage a student account (professors only)",
}

var studentDeleteCmd = &cobra.Command{
	Use:     "delete <email>",
	Aliases: []string{"rm", "del"},
	Short:   "Delete a student and all their workouts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := professor.DeleteStudent(cmd.Context(), args[0]); err != nil {
			return err
		}
		color.Green("✓ Deleted student %s", args[0])
		return nil
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List muscle groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := db.ListMuscleGroups(cmd.Context())
		if err != nil {
			return err
		}
		faint := color.New(color.Faint)
		for _, g := range groups {
			fmt.Printf("%s %s\n", faint.Sprintf("%2d", g.ID), g.Name)
		}
		return nil
	},
}

func init() {
	studentCmd.AddCommand(studentDeleteCmd)
	rootCmd.AddCommand(studentsCmd, studentCmd, groupsCmd)
}
