package utils

// TotalPages is the number of pages needed for items at size per page.
func TotalPages(items, size int) int {
	if items <= 0 || size <= 0 {
		return 0
	}
	return (items + size - 1) / size
}

// PageBounds returns the [start, end) slice indexes of the 1-based page.
// Pages past the end are clamped to the last page; page < 1 is page 1.
func PageBounds(items, page, size int) (start, end int) {
	pages := TotalPages(items, size)
	if pages == 0 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start = (page - 1) * size
	end = start + size
	if end > items {
		end = items
	}
	return start, end
}

// Paginate returns the 1-based page of items.
func Paginate[T any](items []T, page, size int) []T {
	start, end := PageBounds(len(items), page, size)
	return items[start:end]
}

const DefaultPageSize = 10

// Page is one page of a locally paginated table.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPage slices items for the 1-based page. A non-positive size means
// DefaultPageSize.
func NewPage[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := TotalPages(len(items), size)
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}
	view := Paginate(items, page, size)
	if view == nil {
		view = []T{}
	}
	return Page[T]{
		Items:      view,
		Page:       page,
		Size:       size,
		TotalItems: len(items),
		TotalPages: pages,
	}
}
