package applicant

import (
	"context"
	"strings"
	"time"

	"admissions/internal/common"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusAdmitted   Status = "admitted"
	StatusRejected   Status = "rejected"
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

type Applicant struct {
	ID               int64      `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name,omitempty"`
	MiddleName       string     `json:"middle_name,omitempty"`
	PhoneNumber      string     `json:"phone_number,omitempty"`
	Email            string     `json:"email,omitempty"`
	NationalID       string     `json:"national_id,omitempty"`
	PassportNumber   string     `json:"passport_number,omitempty"`
	Citizenship      string     `json:"citizenship,omitempty"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	RegistrationDate time.Time  `json:"registration_date"`
	IntakePeriod     string     `json:"intake_period,omitempty"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SpecialtyLink ties an applicant to a specialty with an optional priority.
type SpecialtyLink struct {
	ApplicantID int64 `json:"applicant_id"`
	SpecialtyID int64 `json:"specialty_id"`
	Priority    *int  `json:"priority,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, a Applicant) (*Applicant, error)
	GetByID(ctx context.Context, id int64) (*Applicant, error)
	Update(ctx context.Context, a Applicant) (*Applicant, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, offset, limit int) ([]Applicant, error)
	FindByIdentity(ctx context.Context, nationalID, passportNumber string) (*Applicant, error)
	AddSpecialty(ctx context.Context, link SpecialtyLink) error
	RemoveSpecialty(ctx context.Context, applicantID, specialtyID int64) error
	CountSpecialties(ctx context.Context, applicantID int64) (int, error)
	ListSpecialties(ctx context.Context, applicantID int64) ([]SpecialtyLink, error)
}

var updatableFields = map[string]struct{}{
	"first_name":      {},
	"last_name":       {},
	"middle_name":     {},
	"phone_number":    {},
	"email":           {},
	"national_id":     {},
	"passport_number": {},
	"citizenship":     {},
	"birth_date":      {},
	"gender":          {},
	"intake_period":   {},
	"status":          {},
}

func UpdatableField(name string) bool {
	_, ok := updatableFields[name]
	return ok
}

// FieldValue returns the audit snapshot value for a whitelisted field. Unset
// optional fields read as nil so snapshots mirror NULL columns.
func (a *Applicant) FieldValue(name string) any {
	switch name {
	case "first_name":
		return a.FirstName
	case "last_name":
		return optionalString(a.LastName)
	case "middle_name":
		return optionalString(a.MiddleName)
	case "phone_number":
		return optionalString(a.PhoneNumber)
	case "email":
		return optionalString(a.Email)
	case "national_id":
		return optionalString(a.NationalID)
	case "passport_number":
		return optionalString(a.PassportNumber)
	case "citizenship":
		return optionalString(a.Citizenship)
	case "birth_date":
		if a.BirthDate == nil {
			return nil
		}
		return a.BirthDate.Format(DateLayout)
	case "gender":
		return optionalString(a.Gender)
	case "intake_period":
		return optionalString(a.IntakePeriod)
	case "status":
		return string(a.Status)
	}
	return nil
}

// SetField applies a decoded JSON value to a whitelisted field, coercing and
// validating the type.
func (a *Applicant) SetField(name string, value any) error {
	switch name {
	case "first_name":
		text, err := stringValue(name, value)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return common.NewValidationError("invalid applicant", map[string]string{name: "first_name cannot be empty"})
		}
		a.FirstName = text
	case "last_name":
		return setString(&a.LastName, name, value)
	case "middle_name":
		return setString(&a.MiddleName, name, value)
	case "phone_number":
		return setString(&a.PhoneNumber, name, value)
	case "email":
		return setString(&a.Email, name, value)
	case "national_id":
		return setString(&a.NationalID, name, value)
	case "passport_number":
		return setString(&a.PassportNumber, name, value)
	case "citizenship":
		return setString(&a.Citizenship, name, value)
	case "birth_date":
		if value == nil {
			a.BirthDate = nil
			return nil
		}
		text, err := stringValue(name, value)
		if err != nil {
			return err
		}
		parsed, err := time.Parse(DateLayout, text)
		if err != nil {
			return common.NewValidationError("invalid applicant", map[string]string{name: "birth_date must be formatted as " + DateLayout})
		}
		a.BirthDate = &parsed
	case "gender":
		return setString(&a.Gender, name, value)
	case "intake_period":
		return setString(&a.IntakePeriod, name, value)
	case "status":
		text, err := stringValue(name, value)
		if err != nil {
			return err
		}
		status := Status(strings.ToLower(strings.TrimSpace(text)))
		switch status {
		case StatusNew, StatusInProgress, StatusAdmitted, StatusRejected:
			a.Status = status
		default:
			return common.NewValidationError("invalid applicant", map[string]string{name: "status must be new, in_progress, admitted, or rejected"})
		}
	default:
		return common.NewValidationError("invalid applicant", map[string]string{name: "field '" + name + "' cannot be updated"})
	}
	return nil
}

func setString(target *string, name string, value any) error {
	if value == nil {
		*target = ""
		return nil
	}
	text, err := stringValue(name, value)
	if err != nil {
		return err
	}
	*target = text
	return nil
}

func stringValue(name string, value any) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", common.NewValidationError("invalid applicant", map[string]string{name: name + " must be a string"})
	}
	return text, nil
}

func optionalString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
