// internal/domain/common/repository_common.go
package common

// Page is an offset page request.
type Page struct {
	Number  int // 1-based
	PerPage int // <= 0 means implementation default
}

// PageResult is a page of T with totals.
type PageResult[T any] struct {
	Items      []T
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
}

// NormalizePage clamps number/perPage and returns the offset to skip.
func NormalizePage(number, perPage, def, max int) (int, int, int) {
	if number <= 0 {
		number = 1
	}
	if perPage <= 0 {
		perPage = def
	}
	if max > 0 && perPage > max {
		perPage = max
	}
	return number, perPage, (number - 1) * perPage
}

// ComputeTotalPages returns ceil(total/perPage).
func ComputeTotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
