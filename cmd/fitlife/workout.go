// ABOUTME: CLI commands for workouts: professors assign and edit, students train.
// ABOUTME: Supports assign, list, show, edit, delete, today, history, done, and next.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/service"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/spf13/cobra"
)

var (
	assignDate      string
	assignCalories  int
	assignOrder     int
	assignExercises []string

	workoutOrder string

	editName     string
	editDate     string
	editCalories int
	editOrder    int

	todayDate string
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Assign, browse, and complete workouts.

Professors assign workouts to students. Each workout holds exercises tagged
with a muscle group. Students see the workout for a date, mark workouts done,
and follow a rotation: after finishing workout N the next one is N+1,
wrapping back to the first.

PROFESSOR COMMANDS:

  assign   Create a workout for a student
  edit     Change name, date, calories, or rotation order
  delete   Remove a workout and its exercises

STUDENT COMMANDS:

  today    Workout scheduled for today (or --date)
  history  All workouts, most recent first
  done     Mark a workout finished
  next     Next workout in the rotation

BOTH:

  list     List a student's workouts
  show     View a workout with its exercises`,
}

var workoutAssignCmd = &cobra.Command{
	Use:   "assign <student-email> <name>",
	Short: "Assign a workout to a student",
	Long: `Assign a workout to a student.

Exercises are given with -e as NAME:GROUP[:SETS[:REPS[:REST]]]. Missing
numbers default to 3 sets, 12 reps, and 60 seconds of rest. Run
'fitlife groups' to see the muscle groups.

If some exercises cannot be saved the workout is kept with the rest and
the failures are reported.

Examples:
  fitlife workout assign ana@gym.com "Leg Day" -e "Squat:Legs:4:10:90" -e "Lunge:Legs"
  fitlife workout assign ana@gym.com "Push" --date 2025-03-10 --calories 350 --order 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := service.Assignment{
			StudentEmail: args[0],
			Name:         args[1],
			Calories:     assignCalories,
			Order:        assignOrder,
		}
		if assignDate != "" {
			t, err := parseTime(assignDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", assignDate)
			}
			a.Date = t
		}
		for _, raw := range assignExercises {
			in, err := parseExercise(raw)
			if err != nil {
				return err
			}
			a.Exercises = append(a.Exercises, in)
		}

		id, err := professor.AssignWorkout(cmd.Context(), a)
		var partial *storage.PartialInsertError
		switch {
		case errors.As(err, &partial):
			color.Yellow("⚠ Saved workout %d with %d exercise(s) skipped", id, len(partial.Failed))
			for _, f := range partial.Failed {
				fmt.Printf("  %s %s\n", f.Name, color.New(color.Faint).Sprint(f.Err))
			}
			return nil
		case err != nil:
			return err
		}

		color.Green("✓ Assigned %s to %s", a.Name, models.NormalizeEmail(a.StudentEmail))
		fmt.Printf("  ID: %d\n", id)
		if len(a.Exercises) > 0 {
			fmt.Printf("  Exercises: %d\n", len(a.Exercises))
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list [student-email]",
	Aliases: []string{"ls"},
	Short:   "List a student's workouts",
	Long: `List a student's workouts.

Students list their own workouts; professors pass the student's email.

ORDER:

  date       Most recent first (default)
  oldest     Oldest first
  rotation   Rotation order`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, ok := storage.ParseWorkoutOrder(workoutOrder)
		if !ok {
			return fmt.Errorf("unknown order: %s (use date, oldest, or rotation)", workoutOrder)
		}

		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			u, err := accounts.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if u.IsProfessor() {
				return fmt.Errorf("professors must name a student: fitlife workout list <student-email>")
			}
			email = u.Email
		}

		workouts, err := db.ListWorkoutsForStudent(cmd.Context(), email, order)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprintf("%4d", w.ID),
				faint.Sprint(w.DateString()),
				padRight(truncate(w.Name, 24), 24),
				faint.Sprintf("#%d  %d kcal", w.Order, w.Calories))
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		w, err := db.GetWorkoutWithExercises(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		printWorkout(w)
		return nil
	},
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a workout",
	Long: `Change a workout's name, date, calories, or rotation order.

Only the flags you pass are changed.

Examples:
  fitlife workout edit 3 --name "Leg Day B"
  fitlife workout edit 3 --date 2025-03-12 --order 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var edit service.WorkoutEdit
		flags := cmd.Flags()
		if flags.Changed("name") {
			edit.Name = &editName
		}
		if flags.Changed("date") {
			t, err := parseTime(editDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", editDate)
			}
			edit.Date = &t
		}
		if flags.Changed("calories") {
			edit.Calories = &editCalories
		}
		if flags.Changed("order") {
			edit.Order = &editOrder
		}
		if edit == (service.WorkoutEdit{}) {
			return fmt.Errorf("nothing to change: pass --name, --date, --calories, or --order")
		}

		w, err := professor.EditWorkout(cmd.Context(), id, edit)
		if err != nil {
			return err
		}
		color.Green("✓ Updated workout %d", w.ID)
		fmt.Printf("  %s  %s  #%d  %d kcal\n", w.Name, w.DateString(), w.Order, w.Calories)
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm", "del"},
	Short:   "Delete a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := professor.DeleteWorkout(cmd.Context(), id); err != nil {
			return err
		}
		color.Green("✓ Deleted workout %d", id)
		return nil
	},
}

var workoutTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's workout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now()
		if todayDate != "" {
			t, err := parseTime(todayDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", todayDate)
			}
			date = t
		}

		w, err := student.Today(cmd.Context(), date)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("No workout scheduled for %s.\n", date.Format(models.DateLayout))
			return nil
		}
		if err != nil {
			return err
		}
		printWorkout(w)
		return nil
	},
}

var workoutHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show all your workouts with exercises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := student.History(cmd.Context())
		if err != nil {
			return err
		}
		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}
		for i, w := range workouts {
			if i > 0 {
				fmt.Println()
			}
			printWorkout(w)
		}
		return nil
	},
}

var workoutDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a workout as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := student.Complete(cmd.Context(), id); err != nil {
			return err
		}
		color.Green("✓ Completed workout %d", id)
		return nil
	},
}

var workoutNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next workout in your rotation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := student.Next(cmd.Context())
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No workouts assigned.")
			return nil
		}
		if err != nil {
			return err
		}
		printWorkout(w)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show your training summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := student.Summary(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Assigned:  %d\n", sum.Assigned)
		fmt.Printf("Completed: %d\n", sum.Completed)
		fmt.Printf("Burned:    %d kcal\n", sum.CaloriesBurned)
		return nil
	},
}

func printWorkout(w *models.Workout) {
	faint := color.New(color.Faint)
	fmt.Printf("Workout: %s %s\n", color.New(color.Bold).Sprint(w.Name), faint.Sprintf("(%d)", w.ID))
	fmt.Printf("Date: %s\n", w.DateString())
	fmt.Printf("Order: %d\n", w.Order)
	if w.Calories > 0 {
		fmt.Printf("Calories: %d kcal\n", w.Calories)
	}
	if w.ProfessorEmail != nil {
		fmt.Printf("Professor: %s\n", *w.ProfessorEmail)
	}

	if len(w.Exercises) == 0 {
		return
	}
	fmt.Println("\nExercises:")
	for _, e := range w.Exercises {
		fmt.Printf("  %s %s %dx%d %s\n",
			padRight(truncate(e.Name, 24), 24),
			padRight(e.MuscleGroup, 10),
			e.Sets, e.Reps,
			faint.Sprintf("rest %ds", e.RestSeconds))
	}
}

// parseExercise reads NAME:GROUP[:SETS[:REPS[:REST]]].
func parseExercise(s string) (service.ExerciseInput, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 5 {
		return service.ExerciseInput{}, fmt.Errorf("invalid exercise %q (use NAME:GROUP[:SETS[:REPS[:REST]]])", s)
	}

	in := service.ExerciseInput{
		Name:        strings.TrimSpace(parts[0]),
		MuscleGroup: strings.TrimSpace(parts[1]),
	}
	if in.Name == "" || in.MuscleGroup == "" {
		return service.ExerciseInput{}, fmt.Errorf("invalid exercise %q: name and group are required", s)
	}

	nums := []*int{&in.Sets, &in.Reps, &in.RestSeconds}
	for i, p := range parts[2:] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return service.ExerciseInput{}, fmt.Errorf("invalid exercise %q: %q is not a positive number", s, p)
		}
		*nums[i] = n
	}
	return in, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid workout id: %s", s)
	}
	return id, nil
}

func init() {
	workoutAssignCmd.Flags().StringVar(&assignDate, "date", "", "workout date (YYYY-MM-DD, default today)")
	workoutAssignCmd.Flags().IntVar(&assignCalories, "calories", 0, "estimated calories")
	workoutAssignCmd.Flags().IntVar(&assignOrder, "order", 0, "position in the rotation")
	workoutAssignCmd.Flags().StringArrayVarP(&assignExercises, "exercise", "e", nil, "exercise as NAME:GROUP[:SETS[:REPS[:REST]]]")

	workoutListCmd.Flags().StringVar(&workoutOrder, "order", "date", "date, oldest, or rotation")

	workoutEditCmd.Flags().StringVar(&editName, "name", "", "new name")
	workoutEditCmd.Flags().StringVar(&editDate, "date", "", "new date (YYYY-MM-DD)")
	workoutEditCmd.Flags().IntVar(&editCalories, "calories", 0, "new calorie estimate")
	workoutEditCmd.Flags().IntVar(&editOrder, "order", 0, "new rotation position")

	workoutTodayCmd.Flags().StringVar(&todayDate, "date", "", "date to check (YYYY-MM-DD)")

	workoutCmd.AddCommand(workoutAssignCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutEditCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	workoutCmd.AddCommand(workoutTodayCmd)
	workoutCmd.AddCommand(workoutHistoryCmd)
	workoutCmd.AddCommand(workoutDoneCmd)
	workoutCmd.AddCommand(workoutNextCmd)
	rootCmd.AddCommand(workoutCmd)
	rootCmd.AddCommand(summaryCmd)
}
