// ABOUTME: Data migration between fitlife databases.
// ABOUTME: Copies users, workouts, exercises, completions and progress from source to destination.

package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrDestinationNotEmpty is returned when migrating into a database that
// already has accounts.
var ErrDestinationNotEmpty = errors.New("destination database is not empty")

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users       int
	Workouts    int
	Exercises   int
	Completions int
}

// MigrateData copies all data from src to dst. The destination must have
// no users; the copy is a single import transaction on dst, so a failure
// leaves it empty.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	existing, err := dst.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect destination: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %d user(s)", ErrDestinationNotEmpty, len(existing))
	}

	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	summary := &MigrateSummary{
		Users:       len(data.Users),
		Workouts:    len(data.Workouts),
		Completions: len(data.Completions),
	}
	for _, w := range data.Workouts {
		summary.Exercises += len(w.Exercises)
	}
	return summary, nil
}
