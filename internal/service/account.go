// ABOUTME: Account workflows: registration, login, logout and current user.
// ABOUTME: Validates input before touching storage and records the session.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/session"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/rs/zerolog"
)

var (
	// ErrValidation is returned for malformed registration input.
	ErrValidation = errors.New("invalid input")

	// ErrForbidden is returned when the session user lacks the role.
	ErrForbidden = errors.New("forbidden")
)

// Registration is the sign-up form.
type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            models.Role
	License         string
}

// AccountService handles sign-up and the login session.
type AccountService struct {
	repo    storage.Repository
	session *session.Session
	logger  zerolog.Logger
}

func NewAccountService(repo storage.Repository, sess *session.Session, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, session: sess, logger: logger}
}

// Register validates the form, creates the account and logs it in.
func (s *AccountService) Register(ctx context.Context, r Registration) (*models.User, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	var u *models.User
	if r.Role == models.RoleProfessor {
		u = models.NewProfessor(strings.TrimSpace(r.Name), r.Email, r.Password, strings.TrimSpace(r.License))
	} else {
		u = models.NewStudent(strings.TrimSpace(r.Name), r.Email, r.Password)
	}

	if _, err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if _, err := s.session.Login(u.Email); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", u.Email).Str("role", u.Role.String()).Msg("account registered")
	return u, nil
}

func (r Registration) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return fmt.Errorf("%w: email %q is not valid", ErrValidation, r.Email)
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("%w: password must have at least 6 characters", ErrValidation)
	}
	if r.Password != r.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	hasLicense := strings.TrimSpace(r.License) != ""
	if r.Role == models.RoleProfessor && !hasLicense {
		return fmt.Errorf("%w: professors must provide a CREF", ErrValidation)
	}
	if r.Role == models.RoleStudent && hasLicense {
		return fmt.Errorf("%w: students do not have a CREF", ErrValidation)
	}
	return nil
}

// Login checks credentials and starts a session.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.Authenticate(ctx, email, password)
	if err != nil {
		// Unknown email and wrong password look the same to the caller.
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("login %s: %w", email, storage.ErrInvalidCredentials)
		}
		return nil, err
	}

	id, err := s.session.Login(u.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("email", u.Email).Str("session_id", id).Msg("logged in")
	return u, nil
}

// Logout ends the session.
func (s *AccountService) Logout() error {
	return s.session.Logout()
}

// CurrentUser returns the logged-in user. A session pointing at a deleted
// account is cleared and reported as ErrNoSession.
func (s *AccountService) CurrentUser(ctx context.Context) (*models.User, error) {
	return currentUser(ctx, s.repo, s.session)
}

func currentUser(ctx context.Context, repo storage.Repository, sess *session.Session) (*models.User, error) {
	email, err := sess.CurrentEmail()
	if err != nil {
		return nil, err
	}

	u, err := repo.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		_ = sess.Logout()
		return nil, session.ErrNoSession
	}
	return u, err
}
