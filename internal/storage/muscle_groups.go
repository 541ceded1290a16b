// ABOUTME: Muscle group reference data: seeding and lookups.
// ABOUTME: Seeding is insert-or-ignore so repeated starts never duplicate rows.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
)

// SeedMuscleGroups inserts the fixed taxonomy, skipping names already present.
func (d *DB) SeedMuscleGroups(ctx context.Context) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO grupos_musculares (nome) VALUES (?)`)
		if err != nil {
			return fmt.Errorf("prepare seed: %w", classifyError(err))
		}
		defer func() { _ = stmt.Close() }()

		for _, name := range models.AllMuscleGroups {
			if _, err := stmt.ExecContext(ctx, name); err != nil {
				return fmt.Errorf("seed muscle group %s: %w", name, classifyError(err))
			}
		}
		return nil
	})
}

// ListMuscleGroups returns all muscle groups ordered by id.
func (d *DB) ListMuscleGroups(ctx context.Context) ([]*models.MuscleGroup, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, nome FROM grupos_musculares ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list muscle groups: %w", classifyError(err))
	}
	defer rows.Close()

	var groups []*models.MuscleGroup
	for rows.Next() {
		var g models.MuscleGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan muscle group: %w", err)
		}
		groups = append(groups, &g)
	}

	return groups, rows.Err()
}

// GetMuscleGroupByName looks up a muscle group case-insensitively.
func (d *DB) GetMuscleGroupByName(ctx context.Context, name string) (*models.MuscleGroup, error) {
	var g models.MuscleGroup
	err := d.db.QueryRowContext(ctx,
		`SELECT id, nome FROM grupos_musculares WHERE LOWER(nome) = LOWER(?)`, name,
	).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("muscle group %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get muscle group: %w", classifyError(err))
	}
	return &g, nil
}
