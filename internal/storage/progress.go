// ABOUTME: Completion tracking and workout rotation for students.
// ABOUTME: Completion is idempotent; progress stores the last completed rotation position.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/metrics"
	"github.com/harperreed/fitlife/internal/models"
)

// MarkCompleted records that the student finished a workout and advances
// their rotation position to it. Completing the same workout twice keeps a
// single completion row.
func (d *DB) MarkCompleted(ctx context.Context, email string, workoutID int64) error {
	email = models.NormalizeEmail(email)

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		w, err := getWorkout(ctx, tx, workoutID)
		if err != nil {
			return err
		}
		if w.StudentEmail != email {
			return fmt.Errorf("workout %d does not belong to %s: %w", workoutID, email, ErrConstraintViolation)
		}

		position, err := rotationPosition(ctx, tx, email, workoutID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO treinos_finalizados (aluno_email, treino_id) VALUES (?, ?)`,
			email, workoutID)
		if err != nil {
			return fmt.Errorf("record completion: %w", classifyError(err))
		}

		query := `
			INSERT INTO progresso_aluno (aluno_email, ultimo_treino_ordem, data_ultimo_treino)
			VALUES (?, ?, ?)
			ON CONFLICT(aluno_email) DO UPDATE SET
				ultimo_treino_ordem = excluded.ultimo_treino_ordem,
				data_ultimo_treino = excluded.data_ultimo_treino
		`
		_, err = tx.ExecContext(ctx, query, email, position, models.Day(d.now()).Format(models.DateLayout))
		if err != nil {
			return fmt.Errorf("update progress: %w", classifyError(err))
		}
		return nil
	})
	d.observe("mark_completed", err)
	if err != nil {
		return err
	}

	metrics.Completions.Inc()
	d.log.Debug().Str("email", email).Int64("workout_id", workoutID).Msg("workout completed")
	return nil
}

// rotationPosition is the 1-based index of a workout in the student's
// (ordem, id) ordered list.
func rotationPosition(ctx context.Context, q querier, email string, workoutID int64) (int, error) {
	workouts, err := listWorkoutsForStudent(ctx, q, email, OrderRotation)
	if err != nil {
		return 0, err
	}
	for i, w := range workouts {
		if w.ID == workoutID {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("workout %d: %w", workoutID, ErrNotFound)
}

// GetCompletionCount returns how many distinct workouts the student finished.
func (d *DB) GetCompletionCount(ctx context.Context, email string) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM treinos_finalizados WHERE aluno_email = ?`,
		models.NormalizeEmail(email),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", classifyError(err))
	}
	return n, nil
}

// GetProgress returns the student's rotation progress. A student who never
// completed a workout gets a zero LastOrder.
func (d *DB) GetProgress(ctx context.Context, email string) (*models.Progress, error) {
	email = models.NormalizeEmail(email)
	p := &models.Progress{StudentEmail: email}

	var order sql.NullInt64
	var date sql.NullString
	err := d.db.QueryRowContext(ctx,
		`SELECT ultimo_treino_ordem, data_ultimo_treino FROM progresso_aluno WHERE aluno_email = ?`,
		email,
	).Scan(&order, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", classifyError(err))
	}

	p.LastOrder = int(order.Int64)
	if date.Valid && date.String != "" {
		t := parseStoredDate(date.String)
		p.LastCompleted = &t
	}
	return p, nil
}

// GetNextWorkoutInRotation returns the workout after the last completed one,
// wrapping to the first. ErrNotFound when the student has no workouts.
func (d *DB) GetNextWorkoutInRotation(ctx context.Context, email string) (*models.Workout, error) {
	progress, err := d.GetProgress(ctx, email)
	if err != nil {
		return nil, err
	}

	workouts, err := d.ListWorkoutsForStudent(ctx, email, OrderRotation)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, fmt.Errorf("next workout for %s: %w", email, ErrNotFound)
	}

	last := progress.LastOrder
	if last < 0 {
		last = 0
	}
	next := workouts[last%len(workouts)]

	return d.GetWorkoutWithExercises(ctx, next.ID)
}

// GetStudentSummary returns the dashboard counters for a student.
func (d *DB) GetStudentSummary(ctx context.Context, email string) (*models.StudentSummary, error) {
	email = models.NormalizeEmail(email)
	s := &models.StudentSummary{StudentEmail: email}

	query := `
		SELECT COUNT(*), COALESCE(SUM(t.calorias), 0)
		FROM treinos_finalizados f
		JOIN treinos t ON t.id = f.treino_id
		WHERE f.aluno_email = ?
	`
	if err := d.db.QueryRowContext(ctx, query, email).Scan(&s.Completed, &s.CaloriesBurned); err != nil {
		return nil, fmt.Errorf("summary completions: %w", classifyError(err))
	}

	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM treinos WHERE aluno_email = ?`, email).Scan(&s.Assigned)
	if err != nil {
		return nil, fmt.Errorf("summary assigned: %w", classifyError(err))
	}
	return s, nil
}
