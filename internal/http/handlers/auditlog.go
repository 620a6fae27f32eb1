package handlers

import (
	"net/http"

	"admissions/internal/app"
	"admissions/internal/http/response"
)

type AuditLogHandler struct {
	auditLogs *app.AuditLogService
}

func NewAuditLogHandler(auditLogs *app.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{auditLogs: auditLogs}
}

func (h *AuditLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	entry, err := h.auditLogs.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, entry)
}

func (h *AuditLogHandler) ListByApplicant(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.auditLogs.ListByApplicant(r.Context(), applicantID, page, pageSize)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
