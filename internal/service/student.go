// ABOUTME: Student workflows: today's workout, history, completion and rotation.
// ABOUTME: Every call acts on the session user's own data.
package service

import (
	"context"
	"time"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/session"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/rs/zerolog"
)

type StudentService struct {
	repo    storage.Repository
	session *session.Session
	logger  zerolog.Logger
}

func NewStudentService(repo storage.Repository, sess *session.Session, logger zerolog.Logger) *StudentService {
	return &StudentService{repo: repo, session: sess, logger: logger}
}

func (s *StudentService) email() (string, error) {
	return s.session.CurrentEmail()
}

// Today returns the workout scheduled for date, or storage.ErrNotFound.
func (s *StudentService) Today(ctx context.Context, date time.Time) (*models.Workout, error) {
	email, err := s.email()
	if err != nil {
		return nil, err
	}
	return s.repo.GetWorkoutForDate(ctx, email, models.Day(date))
}

// History returns all workouts, most recent first, with exercises.
func (s *StudentService) History(ctx context.Context) ([]*models.Workout, error) {
	email, err := s.email()
	if err != nil {
		return nil, err
	}
	return s.repo.GetWorkoutsForStudentExpanded(ctx, email)
}

// Complete marks a workout finished.
func (s *StudentService) Complete(ctx context.Context, workoutID int64) error {
	email, err := s.email()
	if err != nil {
		return err
	}
	if err := s.repo.MarkCompleted(ctx, email, workoutID); err != nil {
		return err
	}
	s.logger.Info().Str("email", email).Int64("workout_id", workoutID).Msg("workout completed")
	return nil
}

// Next returns the next workout in the rotation.
func (s *StudentService) Next(ctx context.Context) (*models.Workout, error) {
	email, err := s.email()
	if err != nil {
		return nil, err
	}
	return s.repo.GetNextWorkoutInRotation(ctx, email)
}

// Summary returns the dashboard counters.
func (s *StudentService) Summary(ctx context.Context) (*models.StudentSummary, error) {
	email, err := s.email()
	if err != nil {
		return nil, err
	}
	return s.repo.GetStudentSummary(ctx, email)
}
