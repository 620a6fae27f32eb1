package handlers

import (
	"net/http"
	"time"

	"admissions/internal/app"
	"admissions/internal/common"
	"admissions/internal/domain/applicant"
	"admissions/internal/http/middleware"
	"admissions/internal/http/response"
)

type ApplicantHandler struct {
	applicants *app.ApplicantService
}

func NewApplicantHandler(applicants *app.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{applicants: applicants}
}

type createApplicantRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	MiddleName     string `json:"middle_name"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email"`
	NationalID     string `json:"national_id"`
	PassportNumber string `json:"passport_number"`
	Citizenship    string `json:"citizenship"`
	BirthDate      string `json:"birth_date"`
	Gender         string `json:"gender"`
	IntakePeriod   string `json:"intake_period"`
	Status         string `json:"status"`
}

type addSpecialtyRequest struct {
	SpecialtyID int64 `json:"specialty_id"`
	Priority    *int  `json:"priority"`
}

func (h *ApplicantHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createApplicantRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	a := applicant.Applicant{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		MiddleName:     req.MiddleName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		NationalID:     req.NationalID,
		PassportNumber: req.PassportNumber,
		Citizenship:    req.Citizenship,
		Gender:         req.Gender,
		IntakePeriod:   req.IntakePeriod,
		Status:         applicant.Status(req.Status),
	}
	if req.BirthDate != "" {
		parsed, err := time.Parse(applicant.DateLayout, req.BirthDate)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid applicant", map[string]string{"birth_date": "birth_date must be formatted as " + applicant.DateLayout}))
			return
		}
		a.BirthDate = &parsed
	}
	created, err := h.applicants.Create(r.Context(), actor, a)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.applicants.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *ApplicantHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var updates map[string]any
	if err := decodeJSON(r, &updates); err != nil {
		response.Error(w, err)
		return
	}
	if len(updates) == 0 {
		response.Error(w, common.NewValidationError("invalid applicant", map[string]string{"body": "at least one field is required"}))
		return
	}
	updated, err := h.applicants.Update(r.Context(), actor, id, updates)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applicants.Delete(r.Context(), actor, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ApplicantHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.applicants.List(r.Context(), page, pageSize)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ApplicantHandler) AddSpecialty(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicantID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req addSpecialtyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.SpecialtyID <= 0 {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"specialty_id": "specialty_id is required"}))
		return
	}
	if err := h.applicants.AddSpecialty(r.Context(), actor, applicantID, req.SpecialtyID, req.Priority); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]string{"status": "linked"})
}

func (h *ApplicantHandler) RemoveSpecialty(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicantID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	specialtyID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applicants.RemoveSpecialty(r.Context(), actor, applicantID, specialtyID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "unlinked"})
}

func (h *ApplicantHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	applicantID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	links, err := h.applicants.Specialties(r.Context(), applicantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, links)
}
