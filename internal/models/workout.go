// ABOUTME: Workout, Exercise, and MuscleGroup models for assigned training plans.
// ABOUTME: Workouts own an ordered list of exercises tagged with a muscle group.
package models

import (
	"time"
)

// DateLayout is the on-disk format of workout and progress dates.
const DateLayout = "2006-01-02"

// Storage defaults for exercises.
const (
	DefaultSets        = 3
	DefaultReps        = 12
	DefaultRestSeconds = 60
)

// Seeded muscle group names.
const (
	GroupChest     = "Chest"
	GroupBack      = "Back"
	GroupLegs      = "Legs"
	GroupShoulders = "Shoulders"
	GroupBiceps    = "Biceps"
	GroupTriceps   = "Triceps"
	GroupAbdomen   = "Abdomen"
)

// AllMuscleGroups is the fixed taxonomy seeded at initialization.
var AllMuscleGroups = []string{
	GroupChest, GroupBack, GroupLegs, GroupShoulders,
	GroupBiceps, GroupTriceps, GroupAbdomen,
}

// MuscleGroup tags exercises. Rows are seeded once and never mutated.
type MuscleGroup struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Workout is a named plan a professor assigns to a student.
type Workout struct {
	ID             int64      `json:"id" yaml:"id"`
	StudentEmail   string     `json:"aluno_email" yaml:"aluno_email"`
	Name           string     `json:"nomeTreino" yaml:"nomeTreino"`
	Date           time.Time  `json:"data" yaml:"data"`
	Calories       int        `json:"calorias" yaml:"calorias"`
	Order          int        `json:"ordem" yaml:"ordem"`
	ProfessorEmail *string    `json:"professor_email,omitempty" yaml:"professor_email,omitempty"`
	Exercises      []Exercise `json:"exercicios,omitempty" yaml:"exercicios,omitempty"` // Populated by composite reads
}

// NewWorkout creates a workout for the student dated today.
func NewWorkout(studentEmail, name string) *Workout {
	return &Workout{
		StudentEmail: studentEmail,
		Name:         name,
		Date:         Day(time.Now()),
	}
}

// WithDate sets the workout date (truncated to the day).
func (w *Workout) WithDate(t time.Time) *Workout {
	w.Date = Day(t)
	return w
}

// WithCalories sets the estimated calorie value.
func (w *Workout) WithCalories(kcal int) *Workout {
	w.Calories = kcal
	return w
}

// WithOrder sets the rotation order.
func (w *Workout) WithOrder(order int) *Workout {
	w.Order = order
	return w
}

// WithProfessor records the authoring professor.
func (w *Workout) WithProfessor(email string) *Workout {
	w.ProfessorEmail = &email
	return w
}

// DateString returns the date in storage format.
func (w *Workout) DateString() string {
	return w.Date.Format(DateLayout)
}

// Exercise is one movement within a workout.
type Exercise struct {
	ID            int64  `json:"id" yaml:"id"`
	WorkoutID     int64  `json:"treino_id" yaml:"treino_id"`
	MuscleGroupID int64  `json:"grupo_muscular_id" yaml:"grupo_muscular_id"`
	Name          string `json:"nome" yaml:"nome"`
	Sets          int    `json:"series" yaml:"series"`
	Reps          int    `json:"repeticoes" yaml:"repeticoes"`
	RestSeconds   int    `json:"pausa" yaml:"pausa"`
	MuscleGroup   string `json:"grupoMuscular,omitempty" yaml:"grupoMuscular,omitempty"` // Populated by joins
}

// NewExercise creates an exercise with the storage defaults.
func NewExercise(muscleGroupID int64, name string) *Exercise {
	return &Exercise{
		MuscleGroupID: muscleGroupID,
		Name:          name,
		Sets:          DefaultSets,
		Reps:          DefaultReps,
		RestSeconds:   DefaultRestSeconds,
	}
}

// WithSets sets the set count.
func (e *Exercise) WithSets(n int) *Exercise {
	e.Sets = n
	return e
}

// WithReps sets the repetition count.
func (e *Exercise) WithReps(n int) *Exercise {
	e.Reps = n
	return e
}

// WithRest sets the rest interval in seconds.
func (e *Exercise) WithRest(seconds int) *Exercise {
	e.RestSeconds = seconds
	return e
}

// Day returns the calendar date of t as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
