package app

import "admissions/internal/common"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageWindow validates the page number and resolves the offset and fetch
// limit for the over-fetch trick (one row beyond the page size).
func pageWindow(page, pageSize int) (offset, fetch, size int, err error) {
	if page < 1 {
		return 0, 0, 0, common.NewValidationError("invalid page", map[string]string{"page": "page number must be 1 or higher"})
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return (page - 1) * pageSize, pageSize + 1, pageSize, nil
}
