// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/fitlife/internal/metrics"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	db     *sql.DB
	dbPath string
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used for schema and write diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(d *DB) { d.log = l }
}

// WithClock overrides the clock used for completion dates.
func WithClock(now func() time.Time) Option {
	return func(d *DB) { d.now = now }
}

// Open opens or creates a SQLite database at the given path, then
// initializes the schema and seeds reference data.
func Open(dbPath string, opts ...Option) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w: %w", ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w: %w", ErrStorageUnavailable, err)
	}
	// One connection: the engine serializes transactions on the file and
	// per-connection pragmas (foreign_keys) always apply.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: %w: %w", ErrStorageUnavailable, err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.configurePragmas(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.InitializeSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	if err := d.SeedMuscleGroups(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed muscle groups: %w", err)
	}

	return d, nil
}

// OpenDefault opens the database at the default XDG data path.
func OpenDefault(opts ...Option) (*DB, error) {
	return Open(DefaultDBPath(), opts...)
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitlife")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "fitlife.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Ping checks that the database file is reachable.
func (d *DB) Ping(ctx context.Context) error {
	t0 := time.Now()
	err := d.db.PingContext(ctx)
	metrics.ObserveDBPing(time.Since(t0))
	if err != nil {
		return fmt.Errorf("ping database: %w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// uriPath escapes the characters SQLite's URI parser treats as delimiters
// so a directory like "a?b" or "c#d" stays part of the filename.
var uriPath = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// dsn builds a modernc DSN that applies the foreign key pragma on every
// connection the pool opens.
func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return "file:" + uriPath.Replace(dbPath) + "?" + q.Encode()
}

// configurePragmas sets up SQLite for optimal performance.
func (d *DB) configurePragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", classifyError(err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", classifyError(err))
	}
	return nil
}

// observe counts a write and logs failures at debug level.
func (d *DB) observe(op string, err error) {
	metrics.ObserveOp(op, err)
	if err != nil {
		d.log.Debug().Err(err).Str("op", op).Msg("storage operation failed")
	}
}
