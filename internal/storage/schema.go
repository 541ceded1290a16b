// ABOUTME: SQLite schema definition, additive evolution, and initialization.
// ABOUTME: Defines users, treinos, grupos_musculares, exercicios, and progress tables.
package storage

import (
	"context"
	"errors"
	"fmt"
)

type schemaStatement struct {
	name string
	sql  string
}

// schemaStatements run in order on every start. Each one is independent.
var schemaStatements = []schemaStatement{
	{"create users", `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		isProfessor INTEGER DEFAULT 0,
		cref TEXT
	)`},

	{"create treinos", `
	CREATE TABLE IF NOT EXISTS treinos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		aluno_email TEXT NOT NULL,
		nomeTreino TEXT NOT NULL,
		data TEXT NOT NULL,
		calorias INTEGER DEFAULT 0,
		ordem INTEGER DEFAULT 0,
		professor_email TEXT,
		FOREIGN KEY (aluno_email) REFERENCES users(email) ON DELETE CASCADE
	)`},

	{"create grupos_musculares", `
	CREATE TABLE IF NOT EXISTS grupos_musculares (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT UNIQUE NOT NULL
	)`},

	{"create exercicios", `
	CREATE TABLE IF NOT EXISTS exercicios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		treino_id INTEGER NOT NULL,
		grupo_muscular_id INTEGER NOT NULL,
		nome TEXT NOT NULL,
		series INTEGER DEFAULT 3,
		repeticoes INTEGER DEFAULT 12,
		pausa INTEGER DEFAULT 60,
		FOREIGN KEY (treino_id) REFERENCES treinos(id) ON DELETE CASCADE,
		FOREIGN KEY (grupo_muscular_id) REFERENCES grupos_musculares(id)
	)`},

	{"create treinos_finalizados", `
	CREATE TABLE IF NOT EXISTS treinos_finalizados (
		aluno_email TEXT NOT NULL,
		treino_id INTEGER NOT NULL,
		PRIMARY KEY (aluno_email, treino_id),
		FOREIGN KEY (aluno_email) REFERENCES users(email) ON DELETE CASCADE,
		FOREIGN KEY (treino_id) REFERENCES treinos(id) ON DELETE CASCADE
	)`},

	{"create progresso_aluno", `
	CREATE TABLE IF NOT EXISTS progresso_aluno (
		aluno_email TEXT PRIMARY KEY,
		ultimo_treino_ordem INTEGER DEFAULT 0,
		data_ultimo_treino TEXT,
		FOREIGN KEY (aluno_email) REFERENCES users(email) ON DELETE CASCADE
	)`},

	// Columns added after the first release. Databases created before
	// them get the column; newer ones report a duplicate column, which is
	// skipped.
	{"add treinos.ordem", `ALTER TABLE treinos ADD COLUMN ordem INTEGER DEFAULT 0`},
	{"add treinos.professor_email", `ALTER TABLE treinos ADD COLUMN professor_email TEXT`},

	{"index treinos aluno/data", `CREATE INDEX IF NOT EXISTS idx_treinos_aluno_data ON treinos(aluno_email, data DESC)`},
	{"index treinos aluno/ordem", `CREATE INDEX IF NOT EXISTS idx_treinos_aluno_ordem ON treinos(aluno_email, ordem)`},
	{"index exercicios treino", `CREATE INDEX IF NOT EXISTS idx_exercicios_treino ON exercicios(treino_id)`},
}

// InitializeSchema creates or upgrades the schema. It is safe to call on
// every start: existing tables and columns are left untouched. A failing
// statement does not stop the ones after it; all failures are returned
// joined.
func (d *DB) InitializeSchema(ctx context.Context) error {
	var errs []error

	for _, stmt := range schemaStatements {
		_, err := d.db.ExecContext(ctx, stmt.sql)
		switch {
		case err == nil:
			d.log.Debug().Str("statement", stmt.name).Msg("schema statement applied")
		case isDuplicateColumn(err):
			d.log.Debug().Str("statement", stmt.name).Msg("column already present")
		default:
			d.log.Error().Err(err).Str("statement", stmt.name).Msg("schema statement failed")
			errs = append(errs, fmt.Errorf("%s: %w", stmt.name, classifyError(err)))
		}
	}

	return errors.Join(errs...)
}

// Columns returns the column names of a table in declaration order.
func (d *DB) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, classifyError(err))
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, ErrNotFound)
	}
	return cols, nil
}
