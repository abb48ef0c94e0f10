package util

const DefaultPageSize = 10

func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// ClampWindow bounds a requested (startindex, number) window against the true
// total so a page never asks for more rows than remain past the offset. A
// window that starts at or beyond the total gets limit 0: an empty page,
// never an error.
func ClampWindow(startindex, number, total int) (limit int) {
	if startindex < 0 || number <= 0 || total <= 0 {
		return 0
	}
	remaining := total - startindex
	if remaining <= 0 {
		return 0
	}
	if number > remaining {
		return remaining
	}
	return number
}
