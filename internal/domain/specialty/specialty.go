package specialty

import (
	"context"

	"admissions/internal/common"
)

type Specialty struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Faculty     string `json:"faculty,omitempty"`
	DegreeLevel string `json:"degree_level,omitempty"`
}

// ExamLink ties a specialty to an exam with an optional required score.
type ExamLink struct {
	SpecialtyID   int64 `json:"specialty_id"`
	ExamID        int64 `json:"exam_id"`
	RequiredScore *int  `json:"required_score,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, s Specialty) (*Specialty, error)
	GetByID(ctx context.Context, id int64) (*Specialty, error)
	Update(ctx context.Context, s Specialty) (*Specialty, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, offset, limit int) ([]Specialty, error)
	FindByNameOrCode(ctx context.Context, name, code string) (*Specialty, error)
	AddExam(ctx context.Context, link ExamLink) error
	RemoveExam(ctx context.Context, specialtyID, examID int64) error
	CountApplicantLinks(ctx context.Context, id int64) (int, error)
	CountExamLinks(ctx context.Context, id int64) (int, error)
}

var updatableFields = map[string]struct{}{
	"name":         {},
	"code":         {},
	"faculty":      {},
	"degree_level": {},
}

func UpdatableField(name string) bool {
	_, ok := updatableFields[name]
	return ok
}

func (s *Specialty) SetField(name string, value any) error {
	var target *string
	switch name {
	case "name":
		target = &s.Name
	case "code":
		target = &s.Code
	case "faculty":
		target = &s.Faculty
	case "degree_level":
		target = &s.DegreeLevel
	default:
		return common.NewValidationError("invalid specialty", map[string]string{name: "field '" + name + "' cannot be updated"})
	}
	if value == nil {
		*target = ""
		return nil
	}
	text, ok := value.(string)
	if !ok {
		return common.NewValidationError("invalid specialty", map[string]string{name: name + " must be a string"})
	}
	if (name == "name" || name == "code") && text == "" {
		return common.NewValidationError("invalid specialty", map[string]string{name: name + " cannot be empty"})
	}
	*target = text
	return nil
}
