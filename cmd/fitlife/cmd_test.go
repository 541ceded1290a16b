// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temporary data directory and checks the stored rows.
package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/harperreed/fitlife/internal/config"
	"github.com/harperreed/fitlife/internal/service"
	"github.com/harperreed/fitlife/internal/session"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"date only", "2025-01-31", false},
		{"date and time with space", "2025-01-31 08:30", false},
		{"date and time with T", "2025-01-31T08:30", false},
		{"RFC3339", "2025-01-31T08:30:00Z", false},
		{"day first", "31-01-2025", true},
		{"random string", "not a date", true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}

	got, err := parseTime("2025-06-15")
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.June || got.Day() != 15 {
		t.Errorf("parseTime returned wrong date: got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"Upper Body Strength", 10, "Upper B..."},
		{"", 10, ""},
		{"hello", 3, "..."},
		{"Tríceps Francês", 10, "Tríceps..."},
		{"Supino Inclinação", 15, "Supino Incli..."},
		{"Tríceps", 7, "Tríceps"},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.input, tt.maxLen, got)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"hi", 5, "hi   "},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello world"},
		{"", 3, "   "},
		{"Bíceps", 8, "Bíceps  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestParseExercise(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    service.ExerciseInput
		wantErr bool
	}{
		{
			name:  "name and group",
			input: "Lunge:Legs",
			want:  service.ExerciseInput{Name: "Lunge", MuscleGroup: "Legs"},
		},
		{
			name:  "all numbers",
			input: "Squat:Legs:4:10:90",
			want:  service.ExerciseInput{Name: "Squat", MuscleGroup: "Legs", Sets: 4, Reps: 10, RestSeconds: 90},
		},
		{
			name:  "sets only with spaces",
			input: " Bench Press : Chest : 5",
			want:  service.ExerciseInput{Name: "Bench Press", MuscleGroup: "Chest", Sets: 5},
		},
		{name: "missing group", input: "Squat", wantErr: true},
		{name: "empty name", input: ":Legs", wantErr: true},
		{name: "non numeric sets", input: "Squat:Legs:four", wantErr: true},
		{name: "zero reps", input: "Squat:Legs:4:0", wantErr: true},
		{name: "too many parts", input: "Squat:Legs:4:10:90:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExercise(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseExercise(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseExercise(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-3"} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q) should fail", bad)
		}
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "fitlife" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "fitlife")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}

	want := []string{"init", "register", "login", "logout", "whoami", "students", "student",
		"groups", "workout", "summary", "export", "import", "doctor", "migrate", "mcp"}
	for _, name := range want {
		if findCommand(rootCmd, name) == nil {
			t.Errorf("root command missing %q", name)
		}
	}
}

func TestWorkoutCmdSubcommands(t *testing.T) {
	want := []string{"assign", "list", "show", "edit", "delete", "today", "history", "done", "next"}
	for _, name := range want {
		if findCommand(workoutCmd, name) == nil {
			t.Errorf("workout command missing %q", name)
		}
	}

	if len(workoutCmd.Aliases) == 0 || workoutCmd.Aliases[0] != "w" {
		t.Errorf("workout aliases = %v, want [w]", workoutCmd.Aliases)
	}
	if findCommand(studentCmd, "delete") == nil {
		t.Error("student command missing delete")
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": true, "yaml": true, "xlsx": true}
	if len(exportCmd.ValidArgs) != len(expected) {
		t.Fatalf("ValidArgs = %v", exportCmd.ValidArgs)
	}
	for _, arg := range exportCmd.ValidArgs {
		if !expected[arg] {
			t.Errorf("unexpected valid arg %q", arg)
		}
	}
}

func TestInitSkipsSetup(t *testing.T) {
	if initCmd.Annotations[skipSetup] == "" {
		t.Error("init should manage its own resources")
	}
}

// setupTestCLI points config and data at a temp directory and returns the
// data directory.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	color.NoColor = true

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	t.Setenv("FITLIFE_DATA_DIR", dataDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("FITLIFE_LOG_LEVEL", "off")
	return dataDir
}

// runCLI executes the root command with fresh flag values.
func runCLI(args ...string) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return Execute()
}

// captureCLI runs the command and returns what it printed to stdout.
func captureCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	origStdout, origColor := os.Stdout, color.Output
	os.Stdout, color.Output = w, w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	runErr := runCLI(args...)

	_ = w.Close()
	os.Stdout, color.Output = origStdout, origColor
	return <-done, runErr
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func findCommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func openTestDB(t *testing.T, dataDir string) *storage.DB {
	t.Helper()
	d, err := storage.Open(filepath.Join(dataDir, "fitlife.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := runCLI(args...); err != nil {
		t.Fatalf("%s failed: %v", strings.Join(args, " "), err)
	}
}

// seedAccounts registers a professor and a student and leaves the
// professor logged in.
func seedAccounts(t *testing.T) {
	t.Helper()
	mustRun(t, "register", "Coach Carter", "coach@gym.com", "-p", "secret1", "--role", "professor", "--cref", "123-G/SP")
	mustRun(t, "register", "Ana Lima", "ana@gym.com", "-p", "secret2")
	mustRun(t, "login", "coach@gym.com", "-p", "secret1")
}

func TestInitCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	mustRun(t, "init")
	if _, err := os.Stat(filepath.Join(dataDir, "fitlife.db")); err != nil {
		t.Fatalf("database not created: %v", err)
	}

	groups, err := openTestDB(t, dataDir).ListMuscleGroups(context.Background())
	if err != nil {
		t.Fatalf("ListMuscleGroups failed: %v", err)
	}
	if len(groups) != 7 {
		t.Errorf("expected 7 muscle groups, got %d", len(groups))
	}
}

func TestInitCmdSavesDataDir(t *testing.T) {
	setupTestCLI(t)
	t.Setenv("FITLIFE_DATA_DIR", "")
	custom := filepath.Join(t.TempDir(), "gym")

	mustRun(t, "init", "--data-dir", custom)

	c, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.DataDir != custom {
		t.Errorf("DataDir = %q, want %q", c.DataDir, custom)
	}
	if _, err := os.Stat(filepath.Join(custom, "fitlife.db")); err != nil {
		t.Errorf("database not created in custom dir: %v", err)
	}
}

func TestRegisterAndWhoami(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "register", "Ana Lima", "Ana@Gym.com", "-p", "secret2")

	out, err := captureCLI(t, "whoami")
	if err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(out, "ana@gym.com") || !strings.Contains(out, "student") {
		t.Errorf("unexpected whoami output: %q", out)
	}

	mustRun(t, "logout")
	if err := runCLI("whoami"); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("whoami after logout: expected ErrNoSession, got %v", err)
	}
}

func TestRegisterCmdValidation(t *testing.T) {
	setupTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"professor without cref", []string{"register", "Coach", "c@gym.com", "-p", "secret1", "--role", "professor"}},
		{"student with cref", []string{"register", "Ana", "a@gym.com", "-p", "secret1", "--cref", "X1"}},
		{"short password", []string{"register", "Ana", "a@gym.com", "-p", "abc"}},
		{"confirmation mismatch", []string{"register", "Ana", "a@gym.com", "-p", "secret1", "--confirm", "secret9"}},
		{"bad email", []string{"register", "Ana", "not-an-email", "-p", "secret1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(tt.args...); !errors.Is(err, service.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if err := runCLI("register", "Ana", "a@gym.com", "-p", "secret1", "--role", "admin"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "register", "Ana", "ana@gym.com", "-p", "secret1")
	if err := runCLI("register", "Other Ana", "ana@gym.com", "-p", "secret1"); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestLoginCmdWrongPassword(t *testing.T) {
	setupTestCLI(t)
	seedAccounts(t)

	if err := runCLI("login", "ana@gym.com", "-p", "wrong"); !errors.Is(err, storage.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := runCLI("login", "nobody@gym.com", "-p", "secret1"); !errors.Is(err, storage.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestWorkoutAssignAndTrain(t *testing.T) {
	dataDir := setupTestCLI(t)
	seedAccounts(t)

	mustRun(t, "workout", "assign", "ana@gym.com", "Leg Day",
		"--date", "2025-03-10", "--calories", "400", "--order", "1",
		"-e", "Squat:Legs:4:10:90", "-e", "Lunge:legs")
	mustRun(t, "workout", "assign", "ana@gym.com", "Push Day",
		"--date", "2025-03-12", "--calories", "300", "--order", "2",
		"-e", "Bench Press:Chest")

	ctx := context.Background()
	d := openTestDB(t, dataDir)
	workouts, err := d.GetWorkoutsForStudentExpanded(ctx, "ana@gym.com")
	if err != nil {
		t.Fatalf("GetWorkoutsForStudentExpanded failed: %v", err)
	}
	if len(workouts) != 2 {
		t.Fatalf("expected 2 workouts, got %d", len(workouts))
	}
	leg := workouts[1]
	if leg.Name != "Leg Day" || len(leg.Exercises) != 2 {
		t.Fatalf("unexpected leg workout: %+v", leg)
	}
	if leg.Exercises[0].Sets != 4 || leg.Exercises[0].Reps != 10 || leg.Exercises[0].RestSeconds != 90 {
		t.Errorf("squat = %+v", leg.Exercises[0])
	}
	if leg.Exercises[1].Sets != 3 || leg.Exercises[1].Reps != 12 || leg.Exercises[1].RestSeconds != 60 {
		t.Errorf("lunge should use defaults, got %+v", leg.Exercises[1])
	}
	if leg.ProfessorEmail == nil || *leg.ProfessorEmail != "coach@gym.com" {
		t.Errorf("professor email = %v", leg.ProfessorEmail)
	}
	_ = d.Close()

	mustRun(t, "login", "ana@gym.com", "-p", "secret2")

	out, err := captureCLI(t, "workout", "today", "--date", "2025-03-10")
	if err != nil {
		t.Fatalf("today failed: %v", err)
	}
	if !strings.Contains(out, "Leg Day") || !strings.Contains(out, "Squat") {
		t.Errorf("today output missing workout: %q", out)
	}

	out, err = captureCLI(t, "workout", "today", "--date", "2025-03-11")
	if err != nil {
		t.Fatalf("today (rest day) failed: %v", err)
	}
	if !strings.Contains(out, "No workout scheduled for 2025-03-11") {
		t.Errorf("unexpected rest day output: %q", out)
	}

	mustRun(t, "workout", "done", strconv.FormatInt(leg.ID, 10))

	out, err = captureCLI(t, "workout", "next")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if !strings.Contains(out, "Push Day") {
		t.Errorf("next after Leg Day should be Push Day, got %q", out)
	}

	out, err = captureCLI(t, "summary")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{"Assigned:  2", "Completed: 1", "400 kcal"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %q", want, out)
		}
	}

	out, err = captureCLI(t, "workout", "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if strings.Index(out, "Push Day") > strings.Index(out, "Leg Day") {
		t.Errorf("history should list the most recent workout first: %q", out)
	}
}

func TestWorkoutAssignUnknownGroup(t *testing.T) {
	dataDir := setupTestCLI(t)
	seedAccounts(t)

	err := runCLI("workout", "assign", "ana@gym.com", "Arms", "-e", "Curl:Forearms")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown group, got %v", err)
	}

	workouts, err := openTestDB(t, dataDir).ListWorkoutsForStudent(context.Background(), "ana@gym.com", storage.OrderDateDesc)
	if err != nil {
		t.Fatalf("ListWorkoutsForStudent failed: %v", err)
	}
	if len(workouts) != 0 {
		t.Errorf("no workout should be stored, got %d", len(workouts))
	}
}

func TestWorkoutAssignRequiresProfessor(t *testing.T) {
	setupTestCLI(t)
	seedAccounts(t)
	mustRun(t, "login", "ana@gym.com", "-p", "secret2")

	if err := runCLI("workout", "assign", "ana@gym.com", "Self Made"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := runCLI("students"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("students: expected ErrForbidden, got %v", err)
	}
}

func TestWorkoutListCmd(t *testing.T) {
	setupTestCLI(t)
	seedAccounts(t)

	mustRun(t, "workout", "assign", "ana@gym.com", "Pull", "--date", "2025-01-01", "--order", "2")
	mustRun(t, "workout", "assign", "ana@gym.com", "Push", "--date", "2025-02-01", "--order", "1")

	if err := runCLI("workout", "list"); err == nil {
		t.Error("professor listing without a student email should fail")
	}
	if err := runCLI("workout", "list", "ana@gym.com", "--order", "sideways"); err == nil {
		t.Error("unknown order should fail")
	}

	out, err := captureCLI(t, "workout", "list", "ana@gym.com", "--order", "rotation")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Index(out, "Push") > strings.Index(out, "Pull") {
		t.Errorf("rotation order should put Push first: %q", out)
	}

	mustRun(t, "login", "ana@gym.com", "-p", "secret2")
	out, err = captureCLI(t, "workout", "list")
	if err != nil {
		t.Fatalf("student list failed: %v", err)
	}
	if strings.Index(out, "Push") > strings.Index(out, "Pull") {
		t.Errorf("date order should put the February workout first: %q", out)
	}
}

func TestWorkoutShowCmdNotFound(t *testing.T) {
	setupTestCLI(t)
	seedAccounts(t)

	if err := runCLI("workout", "show", "999"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := runCLI("workout", "show", "abc"); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestWorkoutEditCmd(t *testing.T) {
	dataDir := setupTestCLI(t)
	seedAccounts(t)
	mustRun(t, "workout", "assign", "ana@gym.com", "Legs", "--date", "2025-03-10", "--calories", "200")

	if err := runCLI("workout", "edit", "1"); err == nil {
		t.Error("edit without flags should fail")
	}
	mustRun(t, "workout", "edit", "1", "--name", "Legs B", "--order", "3")

	w, err := openTestDB(t, dataDir).GetWorkout(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if w.Name != "Legs B" || w.Order != 3 {
		t.Errorf("edit not applied: %+v", w)
	}
	if w.Calories != 200 || w.DateString() != "2025-03-10" {
		t.Errorf("untouched fields changed: %+v", w)
	}
}

func TestWorkoutDeleteCmd(t *testing.T) {
	dataDir := setupTestCLI(t)
	seedAccounts(t)
	mustRun(t, "workout", "assign", "ana@gym.com", "Legs", "-e", "Squat:Legs")

	mustRun(t, "workout", "delete", "1")
	if err := runCLI("workout", "delete", "1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	exercises, err := openTestDB(t, dataDir).ListExercises(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(exercises) != 0 {
		t.Errorf("exercises should be deleted with the workout, got %d", len(exercises))
	}
}

func TestStudentsAndDeleteCmd(t *testing.T) {
	dataDir := setupTestCLI(t)
	seedAccounts(t)
	mustRun(t, "workout", "assign", "ana@gym.com", "Legs", "--calories", "250")

	out, err := captureCLI(t, "students")
	if err != nil {
		t.Fatalf("students failed: %v", err)
	}
	if !strings.Contains(out, "ana@gym.com") || !strings.Contains(out, "1 assigned") {
		t.Errorf("unexpected students output: %q", out)
	}
	if strings.Contains(out, "coach@gym.com") {
		t.Errorf("professors should not be listed: %q", out)
	}

	if err := runCLI("student", "delete", "coach@gym.com"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("deleting a professor: expected ErrForbidden, got %v", err)
	}
	mustRun(t, "student", "delete", "ana@gym.com")

	d := openTestDB(t, dataDir)
	if _, err := d.FindUserByEmail(context.Background(), "ana@gym.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("student should be gone, got %v", err)
	}
	if _, err := d.GetWorkout(context.Background(), 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("workout should cascade, got %v", err)
	}
}

func TestGroupsCmd(t *testing.T) {
	setupTestCLI(t)

	out, err := captureCLI(t, "groups")
	if err != nil {
		t.Fatalf("groups failed: %v", err)
	}
	for _, g := range []string{"Chest", "Legs", "Abdomen"} {
		if !strings.Contains(out, g) {
			t.Errorf("groups output missing %s: %q", g, out)
		}
	}
}

func TestExportImportCmd(t *testing.T) {
	setupTestCLI(t)
	seedAccounts(t)
	mustRun(t, "workout", "assign", "ana@gym.com", "Legs", "-e", "Squat:Legs:5:5:120")

	backup := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, "export", "json", "-o", backup)

	yamlOut, err := captureCLI(t, "export", "yaml")
	if err != nil {
		t.Fatalf("yaml export failed: %v", err)
	}
	if !strings.Contains(yamlOut, "ana@gym.com") || strings.Contains(yamlOut, "secret2") {
		t.Errorf("yaml export should list students without passwords: %q", yamlOut)
	}

	// Restore into an empty data directory.
	freshDir := setupTestCLI(t)
	mustRun(t, "import", backup)

	d := openTestDB(t, freshDir)
	workouts, err := d.GetWorkoutsForStudentExpanded(context.Background(), "ana@gym.com")
	if err != nil {
		t.Fatalf("GetWorkoutsForStudentExpanded failed: %v", err)
	}
	if len(workouts) != 1 || len(workouts[0].Exercises) != 1 || workouts[0].Exercises[0].Sets != 5 {
		t.Fatalf("unexpected imported workouts: %+v", workouts)
	}
	if _, err := d.Authenticate(context.Background(), "ana@gym.com", "secret2"); err != nil {
		t.Errorf("imported credentials should work: %v", err)
	}
	_ = d.Close()

	if err := runCLI("import", backup); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("importing twice: expected ErrDuplicateKey, got %v", err)
	}
}

func TestExportCmdErrors(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI("export", "markdown"); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := runCLI("export", "xlsx"); err == nil {
		t.Error("xlsx without --output should fail")
	}
	if err := runCLI("import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing import file")
	}
}

func TestExportXLSXCmd(t *testing.T) {
	setupTestCLI(t)
	seedAccounts(t)

	out := filepath.Join(t.TempDir(), "gym.xlsx")
	mustRun(t, "export", "xlsx", "-o", out)

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("xlsx not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("xlsx file is empty")
	}
}

func TestDoctorCmd(t *testing.T) {
	setupTestCLI(t)

	out, err := captureCLI(t, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	for _, want := range []string{"database reachable", "table treinos", "muscle groups"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "✗") {
		t.Errorf("doctor reported failures on a fresh database: %q", out)
	}
}

func TestMigrateCmd(t *testing.T) {
	setupTestCLI(t)
	seedAccounts(t)
	mustRun(t, "workout", "assign", "ana@gym.com", "Legs", "-e", "Squat:Legs")

	if err := runCLI("migrate"); err == nil {
		t.Error("migrate without --to should fail")
	}

	dest := filepath.Join(t.TempDir(), "copy", "fitlife.db")
	mustRun(t, "migrate", "--to", dest)

	d, err := storage.Open(dest)
	if err != nil {
		t.Fatalf("open destination: %v", err)
	}
	users, err := d.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 migrated users, got %d", len(users))
	}
	_ = d.Close()

	if err := runCLI("migrate", "--to", dest); !errors.Is(err, storage.ErrDestinationNotEmpty) {
		t.Errorf("second migrate: expected ErrDestinationNotEmpty, got %v", err)
	}
}
