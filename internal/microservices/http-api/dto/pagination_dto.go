package dto

const MaxPageSize = 100

// PageQuery binds ?page=&page_size= query parameters.
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize clamps the query to sane values, falling back to defaultSize.
func (q *PageQuery) Normalize(defaultSize int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = defaultSize
	}
}

// Offset is the number of rows to skip for the current page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Paginated wraps one page of list results.
type Paginated[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a paginated response
func NewPaginated[T any](data []T, total int64, q PageQuery) *Paginated[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = int(total) / q.PageSize
		if int(total)%q.PageSize != 0 {
			totalPages++
		}
	}

	return &Paginated[T]{
		Data:       data,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
