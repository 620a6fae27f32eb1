package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"admissions/internal/common"
)

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath parses the path segment at index as a numeric id. Index counts
// segments after the leading slash, so /applicants/42 has the id at index 1.
func idFromPath(r *http.Request, index int) (int64, error) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(segments) {
		return 0, common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	id, err := strconv.ParseInt(segments[index], 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewError(common.CodeValidation, "invalid id in path", err)
	}
	return id, nil
}

func pageParams(r *http.Request) (int, int, error) {
	page := 1
	pageSize := 0
	query := r.URL.Query()
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, common.NewValidationError("invalid pagination", map[string]string{"page": "page must be an integer"})
		}
		page = parsed
	}
	if raw := query.Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, common.NewValidationError("invalid pagination", map[string]string{"page_size": "page_size must be an integer"})
		}
		pageSize = parsed
	}
	return page, pageSize, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}
