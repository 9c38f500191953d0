// Package pagination splits ordered result sets into fixed-size numbered pages.
package pagination

import "math"

// DefaultSize is the page size used when callers pass a non-positive size.
const DefaultSize = 10

// Page is one numbered slice of an ordered sequence.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"number"`
	Size        int   `json:"size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Normalize maps page numbers below 1 to 1.
func Normalize(number int) int {
	if number < 1 {
		return 1
	}
	return number
}

func normalizeSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	return size
}

// Offset returns the index of the first item on page number.
// Offsets that do not fit in an int saturate at math.MaxInt, which lies past
// the end of any result set.
func Offset(number, size int) int {
	number = Normalize(number)
	size = normalizeSize(size)
	if number-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (number - 1) * size
}

// Beyond reports whether page number holds none of total items.
func Beyond(number, size int, total int64) bool {
	return Normalize(number) > TotalPages(total, size)
}

// TotalPages returns ceil(total/size).
func TotalPages(total int64, size int) int {
	size = normalizeSize(size)
	if total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// New assembles a page from items already limited to the page window.
// A number beyond the last page yields an empty page, not an error.
func New[T any](items []T, number, size int, total int64) Page[T] {
	number = Normalize(number)
	size = normalizeSize(size)
	if items == nil {
		items = []T{}
	}
	pages := TotalPages(total, size)
	return Page[T]{
		Items:       items,
		Number:      number,
		Size:        size,
		TotalItems:  total,
		TotalPages:  pages,
		HasNext:     number < pages,
		HasPrevious: number > 1 && pages > 0,
	}
}
