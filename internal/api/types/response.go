// internal/api/types/response.go
package types

// PaginatedResponse is the envelope for every list endpoint: the page of
// rows plus the paging window and the total match count.
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	TotalCount int64 `json:"total_count"`
}

// NewPaginatedResponse wraps one page of rows. A nil slice becomes an empty
// one so the JSON data field is always an array.
func NewPaginatedResponse[T any](data []T, limit, offset int, totalCount int64) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data:       data,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	}
}
