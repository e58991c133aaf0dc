package grid

import "fmt"

// Position identifies a cell by its row and column.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Ravel collapses the position into a single index, row-major.
func (p Position) Ravel(cols int) int {
	return p.Row*cols + p.Col
}

// Unravel is the inverse of Ravel.
func Unravel(n, cols int) Position {
	return Position{Row: n / cols, Col: n % cols}
}

// Manhattan returns the L1 distance between two positions.
func Manhattan(a, b Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
