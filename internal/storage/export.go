// ABOUTME: Export and import functionality for fitlife data.
// ABOUTME: Supports JSON, YAML, and XLSX export; JSON import runs in one transaction.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for fitlife data.
type ExportData struct {
	Version      string                    `json:"version" yaml:"version"`
	ExportedAt   time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool         string                    `json:"tool" yaml:"tool"`
	MuscleGroups []*models.MuscleGroup     `json:"muscle_groups" yaml:"muscle_groups"`
	Users        []*models.User            `json:"users" yaml:"users"`
	Workouts     []*models.Workout         `json:"workouts" yaml:"workouts"`
	Completions  []models.CompletionRecord `json:"completions" yaml:"completions"`
	Progress     []*models.Progress        `json:"progress" yaml:"progress"`
}

// GetAllData retrieves all data for export. Workouts carry their exercises.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	groups, err := d.ListMuscleGroups(ctx)
	if err != nil {
		return nil, err
	}

	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var workouts []*models.Workout
	for _, u := range users {
		if u.IsProfessor() {
			continue
		}
		ws, err := d.GetWorkoutsForStudentExpanded(ctx, u.Email)
		if err != nil {
			return nil, fmt.Errorf("export workouts for %s: %w", u.Email, err)
		}
		workouts = append(workouts, ws...)
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].ID < workouts[j].ID })

	completions, err := d.listCompletions(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := d.listProgress(ctx)
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Version:      "1.0",
		ExportedAt:   d.now(),
		Tool:         "fitlife",
		MuscleGroups: groups,
		Users:        users,
		Workouts:     workouts,
		Completions:  completions,
		Progress:     progress,
	}, nil
}

func (d *DB) listCompletions(ctx context.Context) ([]models.CompletionRecord, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT aluno_email, treino_id FROM treinos_finalizados ORDER BY aluno_email, treino_id`)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", classifyError(err))
	}
	defer rows.Close()

	var out []models.CompletionRecord
	for rows.Next() {
		var c models.CompletionRecord
		if err := rows.Scan(&c.StudentEmail, &c.WorkoutID); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *DB) listProgress(ctx context.Context) ([]*models.Progress, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT aluno_email, ultimo_treino_ordem, data_ultimo_treino FROM progresso_aluno ORDER BY aluno_email`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", classifyError(err))
	}
	defer rows.Close()

	var out []*models.Progress
	for rows.Next() {
		var p models.Progress
		var order sql.NullInt64
		var date sql.NullString
		if err := rows.Scan(&p.StudentEmail, &order, &date); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.LastOrder = int(order.Int64)
		if date.Valid && date.String != "" {
			t := parseStoredDate(date.String)
			p.LastCompleted = &t
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ImportData imports an export in a single transaction. Ids are
// reassigned; muscle groups are matched by name and workout references
// are remapped. Any failure leaves the database unchanged.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		groupIDs := make(map[int64]int64, len(data.MuscleGroups))
		for _, g := range data.MuscleGroups {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO grupos_musculares (nome) VALUES (?)`, g.Name); err != nil {
				return fmt.Errorf("import muscle group %s: %w", g.Name, classifyError(err))
			}
			var id int64
			if err := tx.QueryRowContext(ctx, `SELECT id FROM grupos_musculares WHERE nome = ?`, g.Name).Scan(&id); err != nil {
				return fmt.Errorf("resolve muscle group %s: %w", g.Name, classifyError(err))
			}
			groupIDs[g.ID] = id
		}

		for _, u := range data.Users {
			imported := *u
			if _, err := insertUser(ctx, tx, &imported); err != nil {
				return fmt.Errorf("import user: %w", err)
			}
		}

		workoutIDs := make(map[int64]int64, len(data.Workouts))
		for _, w := range data.Workouts {
			imported := *w
			id, err := d.insertWorkout(ctx, tx, &imported)
			if err != nil {
				return fmt.Errorf("import workout %d: %w", w.ID, err)
			}
			workoutIDs[w.ID] = id

			for _, e := range w.Exercises {
				ex := e
				ex.WorkoutID = id
				if mapped, ok := groupIDs[e.MuscleGroupID]; ok {
					ex.MuscleGroupID = mapped
				}
				if _, err := insertExercise(ctx, tx, &ex); err != nil {
					return fmt.Errorf("import workout %d: %w", w.ID, err)
				}
			}
		}

		for _, c := range data.Completions {
			id, ok := workoutIDs[c.WorkoutID]
			if !ok {
				return fmt.Errorf("import completion: workout %d: %w", c.WorkoutID, ErrNotFound)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO treinos_finalizados (aluno_email, treino_id) VALUES (?, ?)`,
				models.NormalizeEmail(c.StudentEmail), id)
			if err != nil {
				return fmt.Errorf("import completion: %w", classifyError(err))
			}
		}

		for _, p := range data.Progress {
			var date sql.NullString
			if p.LastCompleted != nil {
				date = sql.NullString{String: p.LastCompleted.Format(models.DateLayout), Valid: true}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO progresso_aluno (aluno_email, ultimo_treino_ordem, data_ultimo_treino) VALUES (?, ?, ?)`,
				models.NormalizeEmail(p.StudentEmail), p.LastOrder, date)
			if err != nil {
				return fmt.Errorf("import progress: %w", classifyError(err))
			}
		}
		return nil
	})
	d.observe("import", err)
	return err
}

// ExportJSON exports all data as JSON. Passwords are included so the
// export can be imported back.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &data)
}

// ExportYAML exports a readable summary grouped by student. Passwords are
// never written.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	completed := make(map[int64]bool, len(data.Completions))
	for _, c := range data.Completions {
		completed[c.WorkoutID] = true
	}

	yamlData := struct {
		Version      string                   `yaml:"version"`
		ExportedAt   string                   `yaml:"exported_at"`
		Tool         string                   `yaml:"tool"`
		MuscleGroups []string                 `yaml:"muscle_groups"`
		Professors   []yamlUser               `yaml:"professors,omitempty"`
		Students     []yamlUser               `yaml:"students,omitempty"`
		Workouts     map[string][]yamlWorkout `yaml:"workouts"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Workouts:   make(map[string][]yamlWorkout),
	}

	for _, g := range data.MuscleGroups {
		yamlData.MuscleGroups = append(yamlData.MuscleGroups, g.Name)
	}

	for _, u := range data.Users {
		yu := yamlUser{Name: u.Name, Email: u.Email}
		if u.License != nil {
			yu.License = *u.License
		}
		if u.IsProfessor() {
			yamlData.Professors = append(yamlData.Professors, yu)
		} else {
			yamlData.Students = append(yamlData.Students, yu)
		}
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{
			ID:        w.ID,
			Name:      w.Name,
			Date:      w.DateString(),
			Calories:  w.Calories,
			Order:     w.Order,
			Completed: completed[w.ID],
		}
		for _, e := range w.Exercises {
			yw.Exercises = append(yw.Exercises, yamlExercise{
				Name:        e.Name,
				MuscleGroup: e.MuscleGroup,
				Sets:        e.Sets,
				Reps:        e.Reps,
				RestSeconds: e.RestSeconds,
			})
		}
		yamlData.Workouts[w.StudentEmail] = append(yamlData.Workouts[w.StudentEmail], yw)
	}

	return yaml.Marshal(yamlData)
}

type yamlUser struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	License string `yaml:"cref,omitempty"`
}

type yamlWorkout struct {
	ID        int64          `yaml:"id"`
	Name      string         `yaml:"name"`
	Date      string         `yaml:"date"`
	Calories  int            `yaml:"calories,omitempty"`
	Order     int            `yaml:"order,omitempty"`
	Completed bool           `yaml:"completed"`
	Exercises []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name        string `yaml:"name"`
	MuscleGroup string `yaml:"muscle_group"`
	Sets        int    `yaml:"sets"`
	Reps        int    `yaml:"reps"`
	RestSeconds int    `yaml:"rest_seconds"`
}

// sheetSpec is one worksheet: a bold header row followed by data rows.
type sheetSpec struct {
	Title  string
	Header []string
	Rows   [][]any
}

// ExportXLSX exports users and workouts as a spreadsheet. Each exercise is
// one row on the Workouts sheet; workouts without exercises get one row.
func (d *DB) ExportXLSX(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	users := sheetSpec{
		Title:  "Users",
		Header: []string{"ID", "Name", "Email", "Role", "CREF"},
	}
	for _, u := range data.Users {
		license := ""
		if u.License != nil {
			license = *u.License
		}
		users.Rows = append(users.Rows, []any{u.ID, u.Name, u.Email, u.Role.String(), license})
	}

	workouts := sheetSpec{
		Title: "Workouts",
		Header: []string{"Workout ID", "Student", "Workout", "Date", "Calories", "Order",
			"Exercise", "Muscle Group", "Sets", "Reps", "Rest (s)"},
	}
	for _, w := range data.Workouts {
		base := []any{w.ID, w.StudentEmail, w.Name, w.DateString(), w.Calories, w.Order}
		if len(w.Exercises) == 0 {
			workouts.Rows = append(workouts.Rows, base)
			continue
		}
		for _, e := range w.Exercises {
			row := append(append([]any{}, base...), e.Name, e.MuscleGroup, e.Sets, e.Reps, e.RestSeconds)
			workouts.Rows = append(workouts.Rows, row)
		}
	}

	return buildWorkbook([]sheetSpec{users, workouts})
}

func buildWorkbook(sheets []sheetSpec) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}

		for col, h := range s.Header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(s.Title, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end, _ := excelize.CoordinatesToCellName(len(s.Header), 1)
		_ = f.SetCellStyle(s.Title, "A1", end, bold)

		for r, row := range s.Rows {
			for c, val := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellValue(s.Title, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		for c := 1; c <= len(s.Header); c++ {
			name, _ := excelize.ColumnNumberToName(c)
			_ = f.SetColWidth(s.Title, name, name, columnWidth(s, c-1))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidth estimates a width from the header and the first rows.
func columnWidth(s sheetSpec, col int) float64 {
	longest := len(s.Header[col])
	for r := 0; r < min(50, len(s.Rows)); r++ {
		if col >= len(s.Rows[r]) {
			continue
		}
		if l := len(cellText(s.Rows[r][col])); l > longest {
			longest = l
		}
	}
	w := float64(longest) * 0.9
	return max(12, min(40, w))
}

func cellText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return fmt.Sprint(v)
}
