package handlers

import (
	"net/http"

	"admissions/internal/app"
	"admissions/internal/common"
	"admissions/internal/domain/exam"
	"admissions/internal/http/response"
)

type ExamHandler struct {
	exams *app.ExamService
}

func NewExamHandler(exams *app.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

type createExamRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	MinScore *int   `json:"min_score"`
}

func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExamRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	examType, err := exam.ParseType(req.Type)
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.exams.Create(r.Context(), exam.Exam{
		Name:     req.Name,
		Type:     examType,
		MinScore: req.MinScore,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.exams.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.exams.List(r.Context(), page, pageSize)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
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
		response.Error(w, common.NewValidationError("invalid exam", map[string]string{"body": "at least one field is required"}))
		return
	}
	updated, err := h.exams.Update(r.Context(), id, updates)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.exams.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
