// ABOUTME: Professor workflows: students, workout assignment and editing.
// ABOUTME: Every call requires the session user to be a professor.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/session"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/rs/zerolog"
)

// ExerciseInput is one exercise of an assignment, referencing its muscle
// group by name.
type ExerciseInput struct {
	Name        string
	MuscleGroup string
	Sets        int
	Reps        int
	RestSeconds int
}

// Assignment is a workout a professor assigns to a student.
type Assignment struct {
	StudentEmail string
	Name         string
	Date         time.Time
	Calories     int
	Order        int
	Exercises    []ExerciseInput
}

// WorkoutEdit holds the editable fields; nil means unchanged.
type WorkoutEdit struct {
	Name     *string
	Date     *time.Time
	Calories *int
	Order    *int
}

type ProfessorService struct {
	repo    storage.Repository
	session *session.Session
	logger  zerolog.Logger
}

func NewProfessorService(repo storage.Repository, sess *session.Session, logger zerolog.Logger) *ProfessorService {
	return &ProfessorService{repo: repo, session: sess, logger: logger}
}

func (s *ProfessorService) professor(ctx context.Context) (*models.User, error) {
	u, err := currentUser(ctx, s.repo, s.session)
	if err != nil {
		return nil, err
	}
	if !u.IsProfessor() {
		return nil, fmt.Errorf("%w: %s is not a professor", ErrForbidden, u.Email)
	}
	return u, nil
}

// ListStudents returns all students by name.
func (s *ProfessorService) ListStudents(ctx context.Context) ([]*models.User, error) {
	if _, err := s.professor(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListStudents(ctx)
}

// AssignWorkout creates a workout with its exercises, authored by the
// session professor. Exercises are built with storage defaults for any
// zero sets, reps or rest. A *storage.PartialInsertError comes back with
// a valid id when some exercises were skipped.
func (s *ProfessorService) AssignWorkout(ctx context.Context, a Assignment) (int64, error) {
	prof, err := s.professor(ctx)
	if err != nil {
		return 0, err
	}

	w := models.NewWorkout(a.StudentEmail, a.Name).
		WithCalories(a.Calories).
		WithOrder(a.Order).
		WithProfessor(prof.Email)
	if !a.Date.IsZero() {
		w.WithDate(a.Date)
	}

	exercises := make([]*models.Exercise, 0, len(a.Exercises))
	for _, in := range a.Exercises {
		g, err := s.repo.GetMuscleGroupByName(ctx, in.MuscleGroup)
		if err != nil {
			return 0, fmt.Errorf("exercise %s: %w", in.Name, err)
		}
		e := models.NewExercise(g.ID, in.Name)
		if in.Sets > 0 {
			e.WithSets(in.Sets)
		}
		if in.Reps > 0 {
			e.WithReps(in.Reps)
		}
		if in.RestSeconds > 0 {
			e.WithRest(in.RestSeconds)
		}
		exercises = append(exercises, e)
	}

	id, err := s.repo.CreateWorkoutWithExercises(ctx, w, exercises)
	if id > 0 {
		s.logger.Info().
			Int64("workout_id", id).
			Str("student", w.StudentEmail).
			Str("professor", prof.Email).
			Int("exercises", len(exercises)).
			Msg("workout assigned")
	}
	return id, err
}

// EditWorkout applies the non-nil fields of edit.
func (s *ProfessorService) EditWorkout(ctx context.Context, id int64, edit WorkoutEdit) (*models.Workout, error) {
	if _, err := s.professor(ctx); err != nil {
		return nil, err
	}

	w, err := s.repo.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if edit.Name != nil {
		w.Name = *edit.Name
	}
	if edit.Date != nil {
		w.WithDate(*edit.Date)
	}
	if edit.Calories != nil {
		w.Calories = *edit.Calories
	}
	if edit.Order != nil {
		w.Order = *edit.Order
	}

	if err := s.repo.UpdateWorkout(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorkout removes a workout and its exercises.
func (s *ProfessorService) DeleteWorkout(ctx context.Context, id int64) error {
	if _, err := s.professor(ctx); err != nil {
		return err
	}
	return s.repo.DeleteWorkout(ctx, id)
}

// DeleteStudent removes a student and everything assigned to them.
func (s *ProfessorService) DeleteStudent(ctx context.Context, email string) error {
	if _, err := s.professor(ctx); err != nil {
		return err
	}

	u, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsProfessor() {
		return fmt.Errorf("%w: %s is not a student", ErrForbidden, u.Email)
	}
	return s.repo.DeleteUser(ctx, u.Email)
}
