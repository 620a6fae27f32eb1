package exam

import (
	"context"
	"strings"

	"admissions/internal/common"
)

type Type string

const (
	TypeUTBK          Type = "utbk"
	TypeTesMandiri    Type = "tes_mandiri"
	TypeInterview     Type = "interview"
	TypePortfolio     Type = "portfolio"
	TypeInternational Type = "international"
)

func ParseType(value string) (Type, error) {
	normalized := Type(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case TypeUTBK, TypeTesMandiri, TypeInterview, TypePortfolio, TypeInternational:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid exam", map[string]string{"type": "type must be utbk, tes_mandiri, interview, portfolio, or international"})
	}
}

type Exam struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	MinScore *int   `json:"min_score,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, e Exam) (*Exam, error)
	GetByID(ctx context.Context, id int64) (*Exam, error)
	Update(ctx context.Context, e Exam) (*Exam, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, offset, limit int) ([]Exam, error)
	FindByNameAndType(ctx context.Context, name string, examType Type) (*Exam, error)
	CountSpecialtyLinks(ctx context.Context, id int64) (int, error)
}

var updatableFields = map[string]struct{}{
	"name":      {},
	"type":      {},
	"min_score": {},
}

func UpdatableField(name string) bool {
	_, ok := updatableFields[name]
	return ok
}

func (e *Exam) SetField(name string, value any) error {
	switch name {
	case "name":
		text, ok := value.(string)
		if !ok || text == "" {
			return common.NewValidationError("invalid exam", map[string]string{name: "name must be a non-empty string"})
		}
		e.Name = text
	case "type":
		text, ok := value.(string)
		if !ok {
			return common.NewValidationError("invalid exam", map[string]string{name: "type must be a string"})
		}
		parsed, err := ParseType(text)
		if err != nil {
			return err
		}
		e.Type = parsed
	case "min_score":
		if value == nil {
			e.MinScore = nil
			return nil
		}
		number, ok := value.(float64)
		if !ok || number != float64(int(number)) {
			return common.NewValidationError("invalid exam", map[string]string{name: "min_score must be an integer"})
		}
		score := int(number)
		e.MinScore = &score
	default:
		return common.NewValidationError("invalid exam", map[string]string{name: "field '" + name + "' cannot be updated"})
	}
	return nil
}
