package common

// Page is the listing envelope returned by every paginated endpoint. NextPage
// is derived from an over-fetch of one extra row, so no count query is needed.
type Page[T any] struct {
	Page     int  `json:"page"`
	NextPage bool `json:"next_page"`
	Items    []T  `json:"items"`
}

// NewPage trims the over-fetched row, if present, and reports whether it was
// there. items is expected to hold at most pageSize+1 entries.
func NewPage[T any](items []T, page, pageSize int) Page[T] {
	nextPage := len(items) > pageSize
	if nextPage {
		items = items[:pageSize]
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Page: page, NextPage: nextPage, Items: items}
}
