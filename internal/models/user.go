// ABOUTME: User model for professors and students.
// ABOUTME: Email is the natural key joining users to workouts and session state.
package models

import "strings"

// Role distinguishes professors from students.
type Role int

const (
	RoleStudent Role = iota
	RoleProfessor
)

func (r Role) String() string {
	if r == RoleProfessor {
		return "professor"
	}
	return "student"
}

// ParseRole accepts "professor" or "student" (case-insensitive).
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "professor", "teacher", "trainer":
		return RoleProfessor, true
	case "student", "aluno":
		return RoleStudent, true
	}
	return RoleStudent, false
}

// User is an account. Password is stored as given (not hashed).
type User struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"nome" yaml:"nome"`
	Email    string  `json:"email" yaml:"email"`
	Password string  `json:"password,omitempty" yaml:"-"`
	Role     Role    `json:"isProfessor" yaml:"role"`
	License  *string `json:"cref,omitempty" yaml:"cref,omitempty"`
}

// NewStudent creates a student account.
func NewStudent(name, email, password string) *User {
	return &User{
		Name:     name,
		Email:    NormalizeEmail(email),
		Password: password,
		Role:     RoleStudent,
	}
}

// NewProfessor creates a professor account with a license (CREF) code.
func NewProfessor(name, email, password, license string) *User {
	return &User{
		Name:     name,
		Email:    NormalizeEmail(email),
		Password: password,
		Role:     RoleProfessor,
		License:  &license,
	}
}

// IsProfessor reports whether the user has the professor role.
func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
