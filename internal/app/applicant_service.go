package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"admissions/internal/common"
	"admissions/internal/domain/applicant"
	"admissions/internal/domain/audit"
	"admissions/internal/domain/user"
)

type ApplicantService struct {
	store  Store
	logger Logger
}

func NewApplicantService(store Store, logger Logger) *ApplicantService {
	return &ApplicantService{store: store, logger: logger}
}

func (s *ApplicantService) Create(ctx context.Context, actor *user.User, a applicant.Applicant) (*applicant.Applicant, error) {
	if strings.TrimSpace(a.FirstName) == "" {
		return nil, common.NewValidationError("invalid applicant", map[string]string{"first_name": "first_name is required"})
	}
	if a.Status == "" {
		a.Status = applicant.StatusNew
	}
	normalized, err := normalizeApplicantStatus(a.Status)
	if err != nil {
		return nil, err
	}
	a.Status = normalized

	var created *applicant.Applicant
	err = s.store.WithTx(ctx, func(st Store) error {
		if a.NationalID != "" || a.PassportNumber != "" {
			existing, err := st.Applicants().FindByIdentity(ctx, a.NationalID, a.PassportNumber)
			if err != nil && !common.Is(err, common.CodeNotFound) {
				return err
			}
			if existing != nil {
				return common.NewError(common.CodeConflict, "applicant with provided national ID or passport already exists", nil)
			}
		}
		made, err := st.Applicants().Create(ctx, a)
		if err != nil {
			return err
		}
		created = made
		after := map[string]any{
			"first_name": made.FirstName,
			"last_name":  made.FieldValue("last_name"),
		}
		return recordChange(ctx, st, made.ID, actor.ID, audit.ChangeApplicantData, audit.ActionCreate, nil, after)
	})
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("applicant created id=%d by user_id=%d", created.ID, actor.ID))
	return created, nil
}

func (s *ApplicantService) Get(ctx context.Context, id int64) (*applicant.Applicant, error) {
	return s.store.Applicants().GetByID(ctx, id)
}

func (s *ApplicantService) Update(ctx context.Context, actor *user.User, id int64, updates map[string]any) (*applicant.Applicant, error) {
	if len(updates) == 0 {
		return nil, common.NewValidationError("invalid applicant", map[string]string{"updates": "at least one field is required"})
	}
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !applicant.UpdatableField(name) {
			return nil, common.NewValidationError("invalid applicant", map[string]string{name: "field '" + name + "' cannot be updated"})
		}
	}

	var updated *applicant.Applicant
	err := s.store.WithTx(ctx, func(st Store) error {
		current, err := st.Applicants().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before := make(map[string]any, len(names))
		for _, name := range names {
			before[name] = current.FieldValue(name)
		}
		for _, name := range names {
			if err := current.SetField(name, updates[name]); err != nil {
				return err
			}
		}
		saved, err := st.Applicants().Update(ctx, *current)
		if err != nil {
			return err
		}
		after := make(map[string]any, len(names))
		for _, name := range names {
			after[name] = saved.FieldValue(name)
		}
		updated = saved
		return recordChange(ctx, st, id, actor.ID, audit.ChangeApplicantData, audit.ActionUpdate, before, after)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ApplicantService) Delete(ctx context.Context, actor *user.User, id int64) error {
	err := s.store.WithTx(ctx, func(st Store) error {
		current, err := st.Applicants().GetByID(ctx, id)
		if err != nil {
			return err
		}
		comments, err := st.Comments().CountByApplicant(ctx, id)
		if err != nil {
			return err
		}
		if comments > 0 {
			return common.NewError(common.CodePrecondition, "cannot delete applicant with existing comments", nil)
		}
		links, err := st.Applicants().CountSpecialties(ctx, id)
		if err != nil {
			return err
		}
		if links > 0 {
			return common.NewError(common.CodePrecondition, "cannot delete applicant linked to specialties", nil)
		}
		before := map[string]any{
			"first_name": current.FirstName,
			"last_name":  current.FieldValue("last_name"),
		}
		if err := recordChange(ctx, st, id, actor.ID, audit.ChangeApplicantData, audit.ActionDelete, before, nil); err != nil {
			return err
		}
		return st.Applicants().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logInfo(fmt.Sprintf("applicant deleted id=%d by user_id=%d", id, actor.ID))
	return nil
}

func (s *ApplicantService) List(ctx context.Context, page, pageSize int) (*common.Page[applicant.Applicant], error) {
	offset, fetch, size, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Applicants().List(ctx, offset, fetch)
	if err != nil {
		return nil, err
	}
	result := common.NewPage(items, page, size)
	return &result, nil
}

func (s *ApplicantService) AddSpecialty(ctx context.Context, actor *user.User, applicantID, specialtyID int64, priority *int) error {
	return s.store.WithTx(ctx, func(st Store) error {
		if _, err := st.Applicants().GetByID(ctx, applicantID); err != nil {
			return err
		}
		if _, err := st.Specialties().GetByID(ctx, specialtyID); err != nil {
			return err
		}
		link := applicant.SpecialtyLink{ApplicantID: applicantID, SpecialtyID: specialtyID, Priority: priority}
		if err := st.Applicants().AddSpecialty(ctx, link); err != nil {
			return err
		}
		after := map[string]any{"specialty_id": specialtyID}
		if priority != nil {
			after["priority"] = *priority
		}
		return recordChange(ctx, st, applicantID, actor.ID, audit.ChangeSpecialty, audit.ActionCreate, nil, after)
	})
}

func (s *ApplicantService) RemoveSpecialty(ctx context.Context, actor *user.User, applicantID, specialtyID int64) error {
	return s.store.WithTx(ctx, func(st Store) error {
		if _, err := st.Applicants().GetByID(ctx, applicantID); err != nil {
			return err
		}
		if err := st.Applicants().RemoveSpecialty(ctx, applicantID, specialtyID); err != nil {
			return err
		}
		before := map[string]any{"specialty_id": specialtyID}
		return recordChange(ctx, st, applicantID, actor.ID, audit.ChangeSpecialty, audit.ActionDelete, before, nil)
	})
}

func (s *ApplicantService) Specialties(ctx context.Context, applicantID int64) ([]applicant.SpecialtyLink, error) {
	if _, err := s.store.Applicants().GetByID(ctx, applicantID); err != nil {
		return nil, err
	}
	return s.store.Applicants().ListSpecialties(ctx, applicantID)
}

func normalizeApplicantStatus(status applicant.Status) (applicant.Status, error) {
	normalized := applicant.Status(strings.ToLower(strings.TrimSpace(string(status))))
	switch normalized {
	case applicant.StatusNew, applicant.StatusInProgress, applicant.StatusAdmitted, applicant.StatusRejected:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid applicant", map[string]string{"status": "status must be new, in_progress, admitted, or rejected"})
	}
}

func (s *ApplicantService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}
