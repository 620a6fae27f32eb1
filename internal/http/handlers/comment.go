package handlers

import (
	"net/http"
	"time"

	"admissions/internal/app"
	"admissions/internal/common"
	"admissions/internal/http/middleware"
	"admissions/internal/http/response"
)

type CommentHandler struct {
	comments *app.CommentService
	limiter  middleware.Limiter
}

func NewCommentHandler(comments *app.CommentService, limiter middleware.Limiter) *CommentHandler {
	return &CommentHandler{comments: comments, limiter: limiter}
}

type createCommentRequest struct {
	ApplicantID int64  `json:"applicant_id"`
	Text        string `json:"text"`
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.ApplicantID <= 0 {
		response.Error(w, common.NewValidationError("invalid comment", map[string]string{"applicant_id": "applicant_id is required"}))
		return
	}
	if h.limiter != nil {
		key := "comment:" + middleware.ClientIP(r)
		if !h.limiter.Allow(key, 30, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "comments are posted too frequently", nil))
			return
		}
	}
	created, err := h.comments.Create(r.Context(), actor, req.ApplicantID, req.Text)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.comments.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.comments.Delete(r.Context(), actor, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CommentHandler) ListByApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.comments.ListByApplicant(r.Context(), applicantID, page, pageSize)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
