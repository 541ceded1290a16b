// ABOUTME: Completion and rotation progress models for students.
// ABOUTME: Progress drives the "next workout" rotation independent of dates.
package models

import "time"

// CompletionRecord marks a workout as finished by a student.
type CompletionRecord struct {
	StudentEmail string `json:"aluno_email" yaml:"aluno_email"`
	WorkoutID    int64  `json:"treino_id" yaml:"treino_id"`
}

// Progress is the last completed rotation position for a student.
// LastOrder is the 1-based position of that workout in the student's
// (ordem, id) rotation list, not its treinos.ordem value. A zero LastOrder
// means nothing has been completed yet.
type Progress struct {
	StudentEmail  string     `json:"aluno_email" yaml:"aluno_email"`
	LastOrder     int        `json:"ultimo_treino_ordem" yaml:"ultimo_treino_ordem"`
	LastCompleted *time.Time `json:"data_ultimo_treino,omitempty" yaml:"data_ultimo_treino,omitempty"`
}

// StudentSummary aggregates dashboard counters for a student.
type StudentSummary struct {
	StudentEmail   string `json:"aluno_email"`
	Completed      int    `json:"treinos_realizados"`
	CaloriesBurned int    `json:"calorias_gastas"`
	Assigned       int    `json:"treinos_atribuidos"`
}
