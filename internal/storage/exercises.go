// ABOUTME: Exercise insert and listing for SQLite storage.
// ABOUTME: Exercises belong to one workout and one muscle group.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/fitlife/internal/models"
)

// AddExercise stores an exercise for an existing workout and returns its id.
// An unknown workout or muscle group fails with ErrForeignKeyViolation.
func (d *DB) AddExercise(ctx context.Context, e *models.Exercise) (int64, error) {
	id, err := insertExercise(ctx, d.db, e)
	d.observe("add_exercise", err)
	if err != nil {
		return 0, err
	}
	e.ID = id
	return id, nil
}

func insertExercise(ctx context.Context, q querier, e *models.Exercise) (int64, error) {
	if strings.TrimSpace(e.Name) == "" {
		return 0, fmt.Errorf("add exercise: name is required")
	}

	query := `
		INSERT INTO exercicios (treino_id, grupo_muscular_id, nome, series, repeticoes, pausa)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		e.WorkoutID,
		e.MuscleGroupID,
		e.Name,
		e.Sets,
		e.Reps,
		e.RestSeconds,
	)
	if err != nil {
		return 0, fmt.Errorf("add exercise %s: %w", e.Name, classifyError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add exercise: %w", err)
	}
	return id, nil
}

// ListExercises returns a workout's exercises in insertion order, each
// annotated with its muscle group name.
func (d *DB) ListExercises(ctx context.Context, workoutID int64) ([]models.Exercise, error) {
	return listExercises(ctx, d.db, workoutID)
}

func listExercises(ctx context.Context, q querier, workoutID int64) ([]models.Exercise, error) {
	query := `
		SELECT e.id, e.treino_id, e.grupo_muscular_id, e.nome, e.series, e.repeticoes, e.pausa, g.nome
		FROM exercicios e
		JOIN grupos_musculares g ON g.id = e.grupo_muscular_id
		WHERE e.treino_id = ?
		ORDER BY e.id ASC
	`
	rows, err := q.QueryContext(ctx, query, workoutID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", classifyError(err))
	}
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		err := rows.Scan(&e.ID, &e.WorkoutID, &e.MuscleGroupID, &e.Name,
			&e.Sets, &e.Reps, &e.RestSeconds, &e.MuscleGroup)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}

	return exercises, rows.Err()
}
