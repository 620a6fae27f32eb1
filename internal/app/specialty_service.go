package app

import (
	"context"
	"sort"
	"strings"

	"admissions/internal/common"
	"admissions/internal/domain/specialty"
)

type SpecialtyService struct {
	store Store
}

func NewSpecialtyService(store Store) *SpecialtyService {
	return &SpecialtyService{store: store}
}

func (s *SpecialtyService) Create(ctx context.Context, sp specialty.Specialty) (*specialty.Specialty, error) {
	sp.Name = strings.TrimSpace(sp.Name)
	sp.Code = strings.TrimSpace(sp.Code)
	fields := map[string]string{}
	if sp.Name == "" {
		fields["name"] = "name is required"
	}
	if sp.Code == "" {
		fields["code"] = "code is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid specialty", fields)
	}
	existing, err := s.store.Specialties().FindByNameOrCode(ctx, sp.Name, sp.Code)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewError(common.CodeConflict, "specialty with this name or code already exists", nil)
	}
	return s.store.Specialties().Create(ctx, sp)
}

func (s *SpecialtyService) Get(ctx context.Context, id int64) (*specialty.Specialty, error) {
	return s.store.Specialties().GetByID(ctx, id)
}

func (s *SpecialtyService) List(ctx context.Context, page, pageSize int) (*common.Page[specialty.Specialty], error) {
	offset, fetch, size, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Specialties().List(ctx, offset, fetch)
	if err != nil {
		return nil, err
	}
	result := common.NewPage(items, page, size)
	return &result, nil
}

// Update enforces the field whitelist but records no audit entry: only
// applicant mutations are audited.
func (s *SpecialtyService) Update(ctx context.Context, id int64, updates map[string]any) (*specialty.Specialty, error) {
	if len(updates) == 0 {
		return nil, common.NewValidationError("invalid specialty", map[string]string{"updates": "at least one field is required"})
	}
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !specialty.UpdatableField(name) {
			return nil, common.NewValidationError("invalid specialty", map[string]string{name: "field '" + name + "' cannot be updated"})
		}
	}
	current, err := s.store.Specialties().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := current.SetField(name, updates[name]); err != nil {
			return nil, err
		}
	}
	return s.store.Specialties().Update(ctx, *current)
}

func (s *SpecialtyService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Specialties().GetByID(ctx, id); err != nil {
		return err
	}
	applicants, err := s.store.Specialties().CountApplicantLinks(ctx, id)
	if err != nil {
		return err
	}
	if applicants > 0 {
		return common.NewError(common.CodePrecondition, "cannot delete specialty linked to applicants", nil)
	}
	exams, err := s.store.Specialties().CountExamLinks(ctx, id)
	if err != nil {
		return err
	}
	if exams > 0 {
		return common.NewError(common.CodePrecondition, "cannot delete specialty linked to exams", nil)
	}
	return s.store.Specialties().Delete(ctx, id)
}

func (s *SpecialtyService) AddExam(ctx context.Context, specialtyID, examID int64, requiredScore *int) error {
	if _, err := s.store.Specialties().GetByID(ctx, specialtyID); err != nil {
		return err
	}
	if _, err := s.store.Exams().GetByID(ctx, examID); err != nil {
		return err
	}
	link := specialty.ExamLink{SpecialtyID: specialtyID, ExamID: examID, RequiredScore: requiredScore}
	return s.store.Specialties().AddExam(ctx, link)
}

func (s *SpecialtyService) RemoveExam(ctx context.Context, specialtyID, examID int64) error {
	if _, err := s.store.Specialties().GetByID(ctx, specialtyID); err != nil {
		return err
	}
	return s.store.Specialties().RemoveExam(ctx, specialtyID, examID)
}
