// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Includes the two-phase workout+exercises transaction with partial failure reporting.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fitlife/internal/metrics"
	"github.com/harperreed/fitlife/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const workoutColumns = `id, aluno_email, nomeTreino, data, calorias, ordem, professor_email`

// CreateWorkout stores a new workout and returns its id. The owner must be
// a student; an unknown owner is rejected by the foreign key.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) (int64, error) {
	var id int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = d.insertWorkout(ctx, tx, w)
		return err
	})
	d.observe("create_workout", err)
	if err != nil {
		return 0, err
	}
	w.ID = id
	return id, nil
}

// CreateWorkoutWithExercises inserts a workout and then its exercises one at
// a time inside a single transaction. An exercise that fails to insert is
// logged and skipped; the workout and the other exercises are still
// committed and a *PartialInsertError is returned alongside the id.
func (d *DB) CreateWorkoutWithExercises(ctx context.Context, w *models.Workout, exercises []*models.Exercise) (int64, error) {
	var id int64
	var failed []FailedExercise

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = d.insertWorkout(ctx, tx, w)
		if err != nil {
			return err
		}

		for i, e := range exercises {
			e.WorkoutID = id
			exID, err := insertExercise(ctx, tx, e)
			if err != nil {
				d.log.Warn().Err(err).
					Int64("workout_id", id).
					Int("index", i).
					Str("exercise", e.Name).
					Msg("exercise insert failed, skipping")
				metrics.SkippedExercises.Inc()
				failed = append(failed, FailedExercise{Index: i, Name: e.Name, Err: err})
				continue
			}
			e.ID = exID
		}
		return nil
	})
	d.observe("create_workout", err)
	if err != nil {
		return 0, err
	}

	w.ID = id
	if len(failed) > 0 {
		return id, &PartialInsertError{WorkoutID: id, Failed: failed}
	}
	return id, nil
}

func (d *DB) insertWorkout(ctx context.Context, q querier, w *models.Workout) (int64, error) {
	if strings.TrimSpace(w.Name) == "" {
		return 0, fmt.Errorf("create workout: name is required")
	}
	email := models.NormalizeEmail(w.StudentEmail)

	var isProfessor int
	err := q.QueryRowContext(ctx, `SELECT isProfessor FROM users WHERE email = ?`, email).Scan(&isProfessor)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Unknown owner: the insert below fails on the foreign key.
	case err != nil:
		return 0, fmt.Errorf("check workout owner: %w", classifyError(err))
	case isProfessor != 0:
		return 0, fmt.Errorf("create workout for %s: %w", email, ErrNotStudent)
	}

	if w.Date.IsZero() {
		w.Date = models.Day(d.now())
	}

	var professor sql.NullString
	if w.ProfessorEmail != nil {
		professor = sql.NullString{String: models.NormalizeEmail(*w.ProfessorEmail), Valid: true}
	}

	query := `
		INSERT INTO treinos (aluno_email, nomeTreino, data, calorias, ordem, professor_email)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		email,
		w.Name,
		w.DateString(),
		w.Calories,
		w.Order,
		professor,
	)
	if err != nil {
		return 0, fmt.Errorf("create workout: %w", classifyError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create workout: %w", err)
	}
	w.StudentEmail = email
	return id, nil
}

// GetWorkout retrieves a workout by id, without exercises.
func (d *DB) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	return getWorkout(ctx, d.db, id)
}

func getWorkout(ctx context.Context, q querier, id int64) (*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM treinos WHERE id = ?`
	w, err := scanWorkout(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workout %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get workout: %w", classifyError(err))
	}
	return w, nil
}

// UpdateWorkout rewrites a workout's name, date, calories and order.
func (d *DB) UpdateWorkout(ctx context.Context, w *models.Workout) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("update workout: name is required")
	}

	query := `
		UPDATE treinos
		SET nomeTreino = ?, data = ?, calorias = ?, ordem = ?
		WHERE id = ?
	`
	result, err := d.db.ExecContext(ctx, query, w.Name, w.DateString(), w.Calories, w.Order, w.ID)
	d.observe("update_workout", err)
	if err != nil {
		return fmt.Errorf("update workout: %w", classifyError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("workout %d: %w", w.ID, ErrNotFound)
	}
	return nil
}

// DeleteWorkout removes a workout. Its exercises and completion rows are
// removed by cascade.
func (d *DB) DeleteWorkout(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM treinos WHERE id = ?", id)
	d.observe("delete_workout", err)
	if err != nil {
		return fmt.Errorf("delete workout: %w", classifyError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete workout %d: %w", id, ErrNotFound)
	}

	d.log.Info().Int64("workout_id", id).Msg("workout deleted")
	return nil
}

// scanWorkout scans a single row into a Workout struct.
func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var date string
	var calories, order sql.NullInt64
	var professor sql.NullString

	err := row.Scan(&w.ID, &w.StudentEmail, &w.Name, &date, &calories, &order, &professor)
	if err != nil {
		return nil, err
	}

	w.Date = parseStoredDate(date)
	w.Calories = int(calories.Int64)
	w.Order = int(order.Int64)
	if professor.Valid && professor.String != "" {
		w.ProfessorEmail = &professor.String
	}
	return &w, nil
}

// scanWorkouts scans multiple rows into a slice of Workouts.
func scanWorkouts(rows *sql.Rows) ([]*models.Workout, error) {
	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// parseStoredDate reads a YYYY-MM-DD date. Rows written with a full
// timestamp keep only their date part.
func parseStoredDate(s string) time.Time {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
