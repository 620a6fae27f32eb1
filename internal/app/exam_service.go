package app

import (
	"context"
	"sort"
	"strings"

	"admissions/internal/common"
	"admissions/internal/domain/exam"
)

type ExamService struct {
	store Store
}

func NewExamService(store Store) *ExamService {
	return &ExamService{store: store}
}

func (s *ExamService) Create(ctx context.Context, e exam.Exam) (*exam.Exam, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, common.NewValidationError("invalid exam", map[string]string{"name": "name is required"})
	}
	normalized, err := exam.ParseType(string(e.Type))
	if err != nil {
		return nil, err
	}
	e.Type = normalized
	existing, err := s.store.Exams().FindByNameAndType(ctx, e.Name, e.Type)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewError(common.CodeConflict, "exam with this name and type already exists", nil)
	}
	return s.store.Exams().Create(ctx, e)
}

func (s *ExamService) Get(ctx context.Context, id int64) (*exam.Exam, error) {
	return s.store.Exams().GetByID(ctx, id)
}

func (s *ExamService) List(ctx context.Context, page, pageSize int) (*common.Page[exam.Exam], error) {
	offset, fetch, size, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Exams().List(ctx, offset, fetch)
	if err != nil {
		return nil, err
	}
	result := common.NewPage(items, page, size)
	return &result, nil
}

// Update enforces the field whitelist but records no audit entry: only
// applicant mutations are audited.
func (s *ExamService) Update(ctx context.Context, id int64, updates map[string]any) (*exam.Exam, error) {
	if len(updates) == 0 {
		return nil, common.NewValidationError("invalid exam", map[string]string{"updates": "at least one field is required"})
	}
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !exam.UpdatableField(name) {
			return nil, common.NewValidationError("invalid exam", map[string]string{name: "field '" + name + "' cannot be updated"})
		}
	}
	current, err := s.store.Exams().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := current.SetField(name, updates[name]); err != nil {
			return nil, err
		}
	}
	return s.store.Exams().Update(ctx, *current)
}

func (s *ExamService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Exams().GetByID(ctx, id); err != nil {
		return err
	}
	links, err := s.store.Exams().CountSpecialtyLinks(ctx, id)
	if err != nil {
		return err
	}
	if links > 0 {
		return common.NewError(common.CodePrecondition, "cannot delete exam linked to specialties", nil)
	}
	return s.store.Exams().Delete(ctx, id)
}
