// ABOUTME: MCP tool implementations for fitlife.
// ABOUTME: Exposes students, workout assignment, completion and rotation to assistants.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_students",
		Description: "List all students ordered by name",
	}, s.handleListStudents)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_muscle_groups",
		Description: "List the muscle groups exercises can target",
	}, s.handleListMuscleGroups)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "assign_workout",
		Description: "Create a workout with exercises for a student",
	}, s.handleAssignWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with its exercises",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List a student's workouts with their exercises, most recent first",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "workout_for_date",
		Description: "Get a student's workout scheduled for a date",
	}, s.handleWorkoutForDate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mark_completed",
		Description: "Mark a workout as completed by its student",
	}, s.handleMarkCompleted)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "next_workout",
		Description: "Get the next workout in a student's rotation",
	}, s.handleNextWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout and its exercises",
	}, s.handleDeleteWorkout)
}

// Tool input/output types

type emptyInput struct{}

type studentOutput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type listStudentsOutput struct {
	Students []studentOutput `json:"students"`
}

type listMuscleGroupsOutput struct {
	MuscleGroups []*models.MuscleGroup `json:"muscle_groups"`
}

type exerciseInput struct {
	Name        string `json:"name" jsonschema:"Exercise name"`
	MuscleGroup string `json:"muscle_group" jsonschema:"Muscle group name (Chest, Back, Legs, Shoulders, Biceps, Triceps, Abdomen)"`
	Sets        int    `json:"sets,omitempty" jsonschema:"Number of sets (default 3)"`
	Reps        int    `json:"reps,omitempty" jsonschema:"Repetitions per set (default 12)"`
	RestSeconds int    `json:"rest_seconds,omitempty" jsonschema:"Rest between sets in seconds (default 60)"`
}

type assignWorkoutInput struct {
	StudentEmail   string          `json:"student_email" jsonschema:"Email of the student receiving the workout"`
	Name           string          `json:"name" jsonschema:"Workout name"`
	Date           string          `json:"date,omitempty" jsonschema:"Workout date YYYY-MM-DD, defaults to today"`
	Calories       int             `json:"calories,omitempty" jsonschema:"Estimated calories burned"`
	Order          int             `json:"order,omitempty" jsonschema:"Position in the student's rotation"`
	ProfessorEmail string          `json:"professor_email,omitempty" jsonschema:"Email of the assigning professor"`
	Exercises      []exerciseInput `json:"exercises,omitempty" jsonschema:"Exercises in the order they are performed"`
}

type assignWorkoutOutput struct {
	ID      int64    `json:"id"`
	Skipped []string `json:"skipped,omitempty"`
	Message string   `json:"message"`
}

type workoutIDInput struct {
	ID int64 `json:"id" jsonschema:"Workout ID"`
}

type studentInput struct {
	StudentEmail string `json:"student_email" jsonschema:"Student email"`
}

type workoutForDateInput struct {
	StudentEmail string `json:"student_email" jsonschema:"Student email"`
	Date         string `json:"date,omitempty" jsonschema:"Date YYYY-MM-DD, defaults to today"`
}

type markCompletedInput struct {
	StudentEmail string `json:"student_email" jsonschema:"Student email"`
	WorkoutID    int64  `json:"workout_id" jsonschema:"Workout ID"`
}

type exerciseView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
}

// workoutView keeps dates as YYYY-MM-DD strings on the wire.
type workoutView struct {
	ID             int64          `json:"id"`
	StudentEmail   string         `json:"student_email"`
	Name           string         `json:"name"`
	Date           string         `json:"date"`
	Calories       int            `json:"calories"`
	Order          int            `json:"order"`
	ProfessorEmail string         `json:"professor_email,omitempty"`
	Exercises      []exerciseView `json:"exercises"`
}

type workoutOutput struct {
	Found   bool         `json:"found"`
	Workout *workoutView `json:"workout,omitempty"`
}

type listWorkoutsOutput struct {
	Workouts []workoutView `json:"workouts"`
}

func toView(w *models.Workout) workoutView {
	v := workoutView{
		ID:           w.ID,
		StudentEmail: w.StudentEmail,
		Name:         w.Name,
		Date:         w.DateString(),
		Calories:     w.Calories,
		Order:        w.Order,
		Exercises:    make([]exerciseView, 0, len(w.Exercises)),
	}
	if w.ProfessorEmail != nil {
		v.ProfessorEmail = *w.ProfessorEmail
	}
	for _, e := range w.Exercises {
		v.Exercises = append(v.Exercises, exerciseView{
			ID:          e.ID,
			Name:        e.Name,
			MuscleGroup: e.MuscleGroup,
			Sets:        e.Sets,
			Reps:        e.Reps,
			RestSeconds: e.RestSeconds,
		})
	}
	return v
}

func found(w *models.Workout) workoutOutput {
	v := toView(w)
	return workoutOutput{Found: true, Workout: &v}
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleListStudents(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, listStudentsOutput, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, listStudentsOutput{}, err
	}

	out := listStudentsOutput{Students: make([]studentOutput, 0, len(students))}
	for _, u := range students {
		out.Students = append(out.Students, studentOutput{Name: u.Name, Email: u.Email})
	}
	return nil, out, nil
}

func (s *Server) handleListMuscleGroups(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, listMuscleGroupsOutput, error) {
	groups, err := s.repo.ListMuscleGroups(ctx)
	if err != nil {
		return nil, listMuscleGroupsOutput{}, err
	}
	return nil, listMuscleGroupsOutput{MuscleGroups: groups}, nil
}

func (s *Server) handleAssignWorkout(ctx context.Context, req *mcp.CallToolRequest, input assignWorkoutInput) (*mcp.CallToolResult, assignWorkoutOutput, error) {
	if input.StudentEmail == "" || input.Name == "" {
		return nil, assignWorkoutOutput{}, fmt.Errorf("student_email and name are required")
	}

	w := models.NewWorkout(input.StudentEmail, input.Name).
		WithCalories(input.Calories).
		WithOrder(input.Order)
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, assignWorkoutOutput{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", input.Date)
		}
		w.WithDate(d)
	}
	if input.ProfessorEmail != "" {
		w.WithProfessor(input.ProfessorEmail)
	}

	exercises := make([]*models.Exercise, 0, len(input.Exercises))
	for _, in := range input.Exercises {
		g, err := s.repo.GetMuscleGroupByName(ctx, in.MuscleGroup)
		if err != nil {
			return nil, assignWorkoutOutput{}, fmt.Errorf("exercise %s: unknown muscle group %q", in.Name, in.MuscleGroup)
		}
		e := models.NewExercise(g.ID, in.Name)
		if in.Sets > 0 {
			e.WithSets(in.Sets)
		}
		if in.Reps > 0 {
			e.WithReps(in.Reps)
		}
		if in.RestSeconds > 0 {
			e.WithRest(in.RestSeconds)
		}
		exercises = append(exercises, e)
	}

	id, err := s.repo.CreateWorkoutWithExercises(ctx, w, exercises)
	var partial *storage.PartialInsertError
	if err != nil && !errors.As(err, &partial) {
		return nil, assignWorkoutOutput{}, err
	}

	out := assignWorkoutOutput{
		ID:      id,
		Message: fmt.Sprintf("Assigned %s to %s (id %d)", w.Name, w.StudentEmail, id),
	}
	if partial != nil {
		for _, f := range partial.Failed {
			out.Skipped = append(out.Skipped, f.Name)
		}
		out.Message += fmt.Sprintf("; %d exercise(s) skipped", len(partial.Failed))
	}
	return nil, out, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutIDInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.repo.GetWorkoutWithExercises(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	return nil, found(w), nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input studentInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	ws, err := s.repo.GetWorkoutsForStudentExpanded(ctx, input.StudentEmail)
	if err != nil {
		return nil, listWorkoutsOutput{}, err
	}
	out := listWorkoutsOutput{Workouts: make([]workoutView, 0, len(ws))}
	for _, w := range ws {
		out.Workouts = append(out.Workouts, toView(w))
	}
	return nil, out, nil
}

func (s *Server) handleWorkoutForDate(ctx context.Context, req *mcp.CallToolRequest, input workoutForDateInput) (*mcp.CallToolResult, workoutOutput, error) {
	date := models.Day(time.Now())
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, workoutOutput{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", input.Date)
		}
		date = d
	}

	w, err := s.repo.GetWorkoutForDate(ctx, input.StudentEmail, date)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, workoutOutput{}, nil
	}
	if err != nil {
		return nil, workoutOutput{}, err
	}
	return nil, found(w), nil
}

func (s *Server) handleMarkCompleted(ctx context.Context, req *mcp.CallToolRequest, input markCompletedInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.MarkCompleted(ctx, input.StudentEmail, input.WorkoutID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Workout %d completed by %s", input.WorkoutID, input.StudentEmail)}, nil
}

func (s *Server) handleNextWorkout(ctx context.Context, req *mcp.CallToolRequest, input studentInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.repo.GetNextWorkoutInRotation(ctx, input.StudentEmail)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, workoutOutput{}, nil
	}
	if err != nil {
		return nil, workoutOutput{}, err
	}
	return nil, found(w), nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteWorkout(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout %d", input.ID)}, nil
}
