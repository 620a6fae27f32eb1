package app

import (
	"context"

	"admissions/internal/domain/applicant"
	"admissions/internal/domain/audit"
	"admissions/internal/domain/auth"
	"admissions/internal/domain/comment"
	"admissions/internal/domain/exam"
	"admissions/internal/domain/specialty"
	"admissions/internal/domain/user"
)

// Store groups the entity repositories behind a single transactional
// boundary. WithTx runs fn against a Store bound to one transaction; if fn
// returns an error the transaction is rolled back and nothing it wrote
// survives. Every mutation-plus-audit sequence goes through WithTx.
type Store interface {
	Users() user.Repository
	Applicants() applicant.Repository
	Specialties() specialty.Repository
	Exams() exam.Repository
	Comments() comment.Repository
	AuditLogs() audit.Repository
	RefreshTokens() auth.RefreshTokenRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}

type Logger interface {
	Info(msg string)
	Error(msg string)
}
