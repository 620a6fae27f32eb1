package postgres

import (
	"context"
	"database/sql"

	"admissions/internal/app"
	"admissions/internal/common"
	"admissions/internal/domain/applicant"
	"admissions/internal/domain/audit"
	"admissions/internal/domain/auth"
	"admissions/internal/domain/comment"
	"admissions/internal/domain/exam"
	"admissions/internal/domain/specialty"
	"admissions/internal/domain/user"
)

// Store aggregates the repositories over one database handle and implements
// app.Store. A Store built by WithTx shares a single *sql.Tx, so a service
// operation either commits whole or leaves no trace.
type Store struct {
	db            *sql.DB
	users         *UserRepository
	applicants    *ApplicantRepository
	specialties   *SpecialtyRepository
	exams         *ExamRepository
	comments      *CommentRepository
	auditLogs     *AuditLogRepository
	refreshTokens *RefreshTokenRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, q DBTX) *Store {
	return &Store{
		db:            db,
		users:         NewUserRepository(q),
		applicants:    NewApplicantRepository(q),
		specialties:   NewSpecialtyRepository(q),
		exams:         NewExamRepository(q),
		comments:      NewCommentRepository(q),
		auditLogs:     NewAuditLogRepository(q),
		refreshTokens: NewRefreshTokenRepository(q),
	}
}

func (s *Store) Users() user.Repository                     { return s.users }
func (s *Store) Applicants() applicant.Repository           { return s.applicants }
func (s *Store) Specialties() specialty.Repository          { return s.specialties }
func (s *Store) Exams() exam.Repository                     { return s.exams }
func (s *Store) Comments() comment.Repository               { return s.comments }
func (s *Store) AuditLogs() audit.Repository                { return s.auditLogs }
func (s *Store) RefreshTokens() auth.RefreshTokenRepository { return s.refreshTokens }

func (s *Store) WithTx(ctx context.Context, fn func(app.Store) error) error {
	if s.db == nil {
		// already inside a transaction
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	if err := fn(newStore(nil, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.NewError(common.CodeInternal, "failed to commit transaction", err)
	}
	return nil
}
