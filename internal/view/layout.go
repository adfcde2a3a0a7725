package view

// DefaultColumns is the column count above every breakpoint.
const DefaultColumns = 4

// ColumnCount returns the number of panel columns for a width. Breakpoints
// are in descending order; each one the width does not exceed removes a
// column, down to one. An unknown width (<= 0) gets the default.
func ColumnCount(width int, breakpoints []int) int {
	if width <= 0 {
		return DefaultColumns
	}

	n := DefaultColumns
	for i, bp := range breakpoints {
		if width <= bp {
			n = DefaultColumns - 1 - i
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Masonry distributes items over n columns, item i going to column i % n.
func Masonry[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}

	cols := make([][]T, n)
	for i, it := range items {
		cols[i%n] = append(cols[i%n], it)
	}
	return cols
}
