// ABOUTME: User CRUD operations for SQLite storage.
// ABOUTME: Email uniqueness is enforced by the schema; deletes cascade to workouts.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/fitlife/internal/models"
)

// CreateUser stores a new user and returns its generated id.
// Professors must carry a license code; students must not.
func (d *DB) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	id, err := insertUser(ctx, d.db, u)
	d.observe("create_user", err)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertUser(ctx context.Context, q querier, u *models.User) (int64, error) {
	if err := validateUser(u); err != nil {
		return 0, err
	}

	var license sql.NullString
	if u.License != nil {
		license = sql.NullString{String: *u.License, Valid: true}
	}

	query := `
		INSERT INTO users (nome, email, password, isProfessor, cref)
		VALUES (?, ?, ?, ?, ?)
	`
	email := models.NormalizeEmail(u.Email)
	result, err := q.ExecContext(ctx, query, u.Name, email, u.Password, int(u.Role), license)
	if err != nil {
		return 0, fmt.Errorf("create user %s: %w", email, classifyError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	u.Email = email
	return id, nil
}

// FindUserByEmail returns the user with the given email or ErrNotFound.
func (d *DB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, nome, email, password, isProfessor, cref
		FROM users
		WHERE email = ?
	`
	u, err := scanUser(d.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", classifyError(err))
	}
	return u, nil
}

// Authenticate checks a stored plaintext password.
func (d *DB) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := d.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Password != password {
		return nil, fmt.Errorf("login %s: %w", email, ErrInvalidCredentials)
	}
	return u, nil
}

// ListStudents returns all users with the student role, ordered by name.
func (d *DB) ListStudents(ctx context.Context) ([]*models.User, error) {
	return d.listUsers(ctx, "WHERE isProfessor = 0 ORDER BY nome COLLATE NOCASE, id")
}

// ListUsers returns every account, professors included, in id order.
func (d *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	return d.listUsers(ctx, "ORDER BY id")
}

func (d *DB) listUsers(ctx context.Context, clause string) ([]*models.User, error) {
	query := `SELECT id, nome, email, password, isProfessor, cref FROM users ` + clause
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", classifyError(err))
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// DeleteUser removes a user. Workouts, their exercises, completion and
// progress rows go with it (cascade).
func (d *DB) DeleteUser(ctx context.Context, email string) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM users WHERE email = ?", models.NormalizeEmail(email))
	d.observe("delete_user", err)
	if err != nil {
		return fmt.Errorf("delete user: %w", classifyError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete user %s: %w", email, ErrNotFound)
	}

	d.log.Info().Str("email", email).Msg("user deleted")
	return nil
}

func validateUser(u *models.User) error {
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" || u.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrInvalidUser)
	}
	hasLicense := u.License != nil && strings.TrimSpace(*u.License) != ""
	if u.IsProfessor() && !hasLicense {
		return fmt.Errorf("%w: professor requires a license code", ErrInvalidUser)
	}
	if !u.IsProfessor() && hasLicense {
		return fmt.Errorf("%w: only professors carry a license code", ErrInvalidUser)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser scans a single row into a User struct.
func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var isProfessor int
	var license sql.NullString

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &isProfessor, &license); err != nil {
		return nil, err
	}

	if isProfessor != 0 {
		u.Role = models.RoleProfessor
	}
	if license.Valid && license.String != "" {
		u.License = &license.String
	}
	return &u, nil
}
