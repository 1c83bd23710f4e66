package service

// Page is one window over a filtered list. TotalPages is never below 1,
// even for an empty list, so a pager always has something to render.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalItems int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items into the requested page. The page number is
// clamped into [1, TotalPages], so a stale page after a filter shrinks
// the set resolves to the last page instead of an empty one.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = 1
	}
	totalPages := (len(items) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		Size:       size,
		TotalItems: len(items),
		TotalPages: totalPages,
	}
}
