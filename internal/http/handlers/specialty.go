package handlers

import (
	"net/http"

	"admissions/internal/app"
	"admissions/internal/common"
	"admissions/internal/domain/specialty"
	"admissions/internal/http/response"
)

type SpecialtyHandler struct {
	specialties *app.SpecialtyService
}

func NewSpecialtyHandler(specialties *app.SpecialtyService) *SpecialtyHandler {
	return &SpecialtyHandler{specialties: specialties}
}

type createSpecialtyRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Faculty     string `json:"faculty"`
	DegreeLevel string `json:"degree_level"`
}

type addExamRequest struct {
	ExamID        int64 `json:"exam_id"`
	RequiredScore *int  `json:"required_score"`
}

func (h *SpecialtyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSpecialtyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.specialties.Create(r.Context(), specialty.Specialty{
		Name:        req.Name,
		Code:        req.Code,
		Faculty:     req.Faculty,
		DegreeLevel: req.DegreeLevel,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *SpecialtyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.specialties.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *SpecialtyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.specialties.List(r.Context(), page, pageSize)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *SpecialtyHandler) Update(w http.ResponseWriter, r *http.Request) {
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
		response.Error(w, common.NewValidationError("invalid specialty", map[string]string{"body": "at least one field is required"}))
		return
	}
	updated, err := h.specialties.Update(r.Context(), id, updates)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *SpecialtyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.specialties.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *SpecialtyHandler) AddExam(w http.ResponseWriter, r *http.Request) {
	specialtyID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req addExamRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.ExamID <= 0 {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"exam_id": "exam_id is required"}))
		return
	}
	if err := h.specialties.AddExam(r.Context(), specialtyID, req.ExamID, req.RequiredScore); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]string{"status": "linked"})
}

func (h *SpecialtyHandler) RemoveExam(w http.ResponseWriter, r *http.Request) {
	specialtyID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	examID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.specialties.RemoveExam(r.Context(), specialtyID, examID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "unlinked"})
}
