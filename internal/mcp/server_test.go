// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a temp database.
package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fitlife-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := storage.Open(filepath.Join(tmpDir, "fitlife.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateUser(ctx, models.NewStudent("Ana", "a@x.com", "pw")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := db.CreateUser(ctx, models.NewProfessor("Coach", "coach@x.com", "pw", "CREF-1")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	server, err := NewServer(db, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func TestNewServer(t *testing.T) {
	server, _ := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
}

func TestHandleListStudents(t *testing.T) {
	server, _ := setupServer(t)

	_, out, err := server.handleListStudents(context.Background(), nil, emptyInput{})
	if err != nil {
		t.Fatalf("handleListStudents failed: %v", err)
	}
	if len(out.Students) != 1 || out.Students[0].Email != "a@x.com" {
		t.Errorf("unexpected students: %+v", out.Students)
	}
}

func TestHandleListMuscleGroups(t *testing.T) {
	server, _ := setupServer(t)

	_, out, err := server.handleListMuscleGroups(context.Background(), nil, emptyInput{})
	if err != nil {
		t.Fatalf("handleListMuscleGroups failed: %v", err)
	}
	if len(out.MuscleGroups) != 7 {
		t.Errorf("expected 7 groups, got %d", len(out.MuscleGroups))
	}
}

func TestHandleAssignWorkout(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     assignWorkoutInput
		wantErr   bool
		errSubstr string
	}{
		{
			name: "valid workout",
			input: assignWorkoutInput{
				StudentEmail: "a@x.com", Name: "Leg Day", Date: "2024-03-01", ProfessorEmail: "coach@x.com",
				Exercises: []exerciseInput{{Name: "Squat", MuscleGroup: "Legs", Sets: 4}},
			},
		},
		{
			name:      "missing name",
			input:     assignWorkoutInput{StudentEmail: "a@x.com"},
			wantErr:   true,
			errSubstr: "required",
		},
		{
			name:      "bad date",
			input:     assignWorkoutInput{StudentEmail: "a@x.com", Name: "X", Date: "03/01/2024"},
			wantErr:   true,
			errSubstr: "invalid date",
		},
		{
			name: "unknown muscle group",
			input: assignWorkoutInput{StudentEmail: "a@x.com", Name: "X",
				Exercises: []exerciseInput{{Name: "Mystery", MuscleGroup: "Calves"}}},
			wantErr:   true,
			errSubstr: "unknown muscle group",
		},
		{
			name:      "professor as owner",
			input:     assignWorkoutInput{StudentEmail: "coach@x.com", Name: "X"},
			wantErr:   true,
			errSubstr: "not a student",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAssignWorkout(ctx, nil, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error %q does not contain %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.ID <= 0 {
				t.Errorf("expected id, got %d", out.ID)
			}
		})
	}
}

func TestWorkoutLifecycleTools(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	_, assigned, err := server.handleAssignWorkout(ctx, nil, assignWorkoutInput{
		StudentEmail: "a@x.com", Name: "Push", Date: "2024-05-01", Order: 1,
		Exercises: []exerciseInput{{Name: "Bench", MuscleGroup: "chest"}, {Name: "Dips", MuscleGroup: "Triceps", Reps: 8}},
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	_, got, err := server.handleGetWorkout(ctx, nil, workoutIDInput{ID: assigned.ID})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !got.Found || got.Workout.Date != "2024-05-01" || len(got.Workout.Exercises) != 2 {
		t.Errorf("unexpected workout: %+v", got.Workout)
	}
	if got.Workout.Exercises[1].Reps != 8 || got.Workout.Exercises[0].Reps != models.DefaultReps {
		t.Errorf("unexpected reps: %+v", got.Workout.Exercises)
	}

	_, byDate, err := server.handleWorkoutForDate(ctx, nil, workoutForDateInput{StudentEmail: "a@x.com", Date: "2024-05-01"})
	if err != nil || !byDate.Found || byDate.Workout.ID != assigned.ID {
		t.Errorf("workout_for_date = %+v, %v", byDate, err)
	}

	_, none, err := server.handleWorkoutForDate(ctx, nil, workoutForDateInput{StudentEmail: "a@x.com", Date: "2024-05-02"})
	if err != nil || none.Found {
		t.Errorf("expected not found, got %+v, %v", none, err)
	}

	if _, _, err := server.handleMarkCompleted(ctx, nil, markCompletedInput{StudentEmail: "a@x.com", WorkoutID: assigned.ID}); err != nil {
		t.Fatalf("mark_completed failed: %v", err)
	}

	_, next, err := server.handleNextWorkout(ctx, nil, studentInput{StudentEmail: "a@x.com"})
	if err != nil || !next.Found || next.Workout.ID != assigned.ID {
		t.Errorf("next_workout = %+v, %v", next, err)
	}

	_, list, err := server.handleListWorkouts(ctx, nil, studentInput{StudentEmail: "a@x.com"})
	if err != nil || len(list.Workouts) != 1 {
		t.Errorf("list_workouts = %+v, %v", list, err)
	}

	if _, _, err := server.handleDeleteWorkout(ctx, nil, workoutIDInput{ID: assigned.ID}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := server.handleGetWorkout(ctx, nil, workoutIDInput{ID: assigned.ID}); err == nil {
		t.Error("expected error getting deleted workout")
	}

	_, empty, err := server.handleNextWorkout(ctx, nil, studentInput{StudentEmail: "a@x.com"})
	if err != nil || empty.Found {
		t.Errorf("expected no next workout, got %+v, %v", empty, err)
	}
}

func TestResources(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()

	id, err := db.CreateWorkout(ctx, models.NewWorkout("a@x.com", "Push").WithCalories(200))
	if err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}
	if err := db.MarkCompleted(ctx, "a@x.com", id); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}

	res, err := server.handleGroupsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("groups resource failed: %v", err)
	}
	if res.Contents[0].URI != groupsURI || !strings.Contains(res.Contents[0].Text, "Abdomen") {
		t.Errorf("unexpected groups resource: %+v", res.Contents[0])
	}

	res, err = server.handleStudentsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("students resource failed: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &entries); err != nil {
		t.Fatalf("students resource is not JSON: %v", err)
	}
	if len(entries) != 1 || entries[0]["completed"] != float64(1) || entries[0]["calories_burned"] != float64(200) {
		t.Errorf("unexpected students resource: %v", entries)
	}
}
