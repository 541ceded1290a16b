// ABOUTME: Composite read queries joining workouts, exercises and muscle groups.
// ABOUTME: Exercise sub-queries run sequentially after the parent cursor is closed.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/fitlife/internal/models"
)

// WorkoutOrder selects the sort order of a student's workout list.
type WorkoutOrder int

const (
	// OrderDateDesc lists the most recent workout first.
	OrderDateDesc WorkoutOrder = iota
	OrderDateAsc
	// OrderRotation lists workouts by (ordem, id), the rotation sequence.
	OrderRotation
)

func (o WorkoutOrder) orderBy() string {
	switch o {
	case OrderDateAsc:
		return "data ASC, id ASC"
	case OrderRotation:
		return "ordem ASC, id ASC"
	default:
		return "data DESC, id DESC"
	}
}

// ParseWorkoutOrder maps "date", "date-asc" and "rotation" to an order.
func ParseWorkoutOrder(s string) (WorkoutOrder, bool) {
	switch s {
	case "", "date", "date-desc", "recent":
		return OrderDateDesc, true
	case "date-asc", "oldest":
		return OrderDateAsc, true
	case "rotation", "order":
		return OrderRotation, true
	}
	return OrderDateDesc, false
}

// GetWorkoutWithExercises returns a workout with its exercises ordered by
// insertion. ErrNotFound if the workout does not exist.
func (d *DB) GetWorkoutWithExercises(ctx context.Context, workoutID int64) (*models.Workout, error) {
	return getWorkoutWithExercises(ctx, d.db, workoutID)
}

func getWorkoutWithExercises(ctx context.Context, q querier, workoutID int64) (*models.Workout, error) {
	w, err := getWorkout(ctx, q, workoutID)
	if err != nil {
		return nil, err
	}

	w.Exercises, err = listExercises(ctx, q, workoutID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkoutsForStudent returns a student's workouts without exercises.
func (d *DB) ListWorkoutsForStudent(ctx context.Context, email string, order WorkoutOrder) ([]*models.Workout, error) {
	return listWorkoutsForStudent(ctx, d.db, email, order)
}

func listWorkoutsForStudent(ctx context.Context, q querier, email string, order WorkoutOrder) ([]*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM treinos WHERE aluno_email = ? ORDER BY ` + order.orderBy()
	rows, err := q.QueryContext(ctx, query, models.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", classifyError(err))
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetWorkoutsForStudentExpanded returns every workout of a student, most
// recent first, each with its exercises. A workout removed between the
// list and its exercise query comes back with no exercises.
func (d *DB) GetWorkoutsForStudentExpanded(ctx context.Context, email string) ([]*models.Workout, error) {
	// The list cursor is closed before any sub-query runs.
	workouts, err := d.ListWorkoutsForStudent(ctx, email, OrderDateDesc)
	if err != nil {
		return nil, err
	}

	expanded := make([]*models.Workout, len(workouts))
	for i, w := range workouts {
		exercises, err := d.ListExercises(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("expand workout %d: %w", w.ID, err)
		}
		w.Exercises = exercises
		expanded[i] = w
	}

	return expanded, nil
}

// GetWorkoutForDate returns the student's first workout (lowest id) on the
// given day, with exercises. ErrNotFound when the day has none.
func (d *DB) GetWorkoutForDate(ctx context.Context, email string, date time.Time) (*models.Workout, error) {
	var id int64
	err := d.db.QueryRowContext(ctx,
		`SELECT id FROM treinos WHERE aluno_email = ? AND data = ? ORDER BY id ASC LIMIT 1`,
		models.NormalizeEmail(email), date.Format(models.DateLayout),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workout for %s on %s: %w", email, date.Format(models.DateLayout), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("workout for date: %w", classifyError(err))
	}

	return d.GetWorkoutWithExercises(ctx, id)
}
