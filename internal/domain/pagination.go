package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationMeta describes a windowed view over a result set.
type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NormalizePage clamps page and limit into their valid ranges.
// Zero values select the defaults.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// NewPaginationMeta computes pagination metadata for total items.
func NewPaginationMeta(total, page, limit int) PaginationMeta {
	page, limit = NormalizePage(page, limit)
	totalPages := (total + limit - 1) / limit
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Paginate returns the page of items selected by page and limit together with
// its metadata. A page past the end yields an empty window, not an error.
func Paginate[T any](items []T, page, limit int) ([]T, PaginationMeta) {
	meta := NewPaginationMeta(len(items), page, limit)

	// page > totalPages is the same as skip >= total, without the overflow.
	if meta.Page > meta.TotalPages {
		return []T{}, meta
	}
	skip := (meta.Page - 1) * meta.Limit
	end := skip + meta.Limit
	if end > len(items) {
		end = len(items)
	}

	window := make([]T, end-skip)
	copy(window, items[skip:end])
	return window, meta
}
