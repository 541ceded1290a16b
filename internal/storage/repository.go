// ABOUTME: Repository interface for fitlife data storage.
// ABOUTME: Defines the contract for users, workouts, exercises, progress and export.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/fitlife/internal/models"
)

// Repository defines the storage interface for fitlife data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Reference data
	ListMuscleGroups(ctx context.Context) ([]*models.MuscleGroup, error)
	GetMuscleGroupByName(ctx context.Context, name string) (*models.MuscleGroup, error)

	// Users
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	ListStudents(ctx context.Context) ([]*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, email string) error

	// Workouts and exercises
	CreateWorkout(ctx context.Context, w *models.Workout) (int64, error)
	CreateWorkoutWithExercises(ctx context.Context, w *models.Workout, exercises []*models.Exercise) (int64, error)
	GetWorkout(ctx context.Context, id int64) (*models.Workout, error)
	UpdateWorkout(ctx context.Context, w *models.Workout) error
	DeleteWorkout(ctx context.Context, id int64) error
	AddExercise(ctx context.Context, e *models.Exercise) (int64, error)
	ListExercises(ctx context.Context, workoutID int64) ([]models.Exercise, error)

	// Composite reads
	GetWorkoutWithExercises(ctx context.Context, workoutID int64) (*models.Workout, error)
	ListWorkoutsForStudent(ctx context.Context, email string, order WorkoutOrder) ([]*models.Workout, error)
	GetWorkoutsForStudentExpanded(ctx context.Context, email string) ([]*models.Workout, error)
	GetWorkoutForDate(ctx context.Context, email string, date time.Time) (*models.Workout, error)

	// Progress
	MarkCompleted(ctx context.Context, email string, workoutID int64) error
	GetCompletionCount(ctx context.Context, email string) (int, error)
	GetProgress(ctx context.Context, email string) (*models.Progress, error)
	GetNextWorkoutInRotation(ctx context.Context, email string) (*models.Workout, error)
	GetStudentSummary(ctx context.Context, email string) (*models.StudentSummary, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
