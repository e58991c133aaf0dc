package grid

import (
	"errors"
	"fmt"
)

var (
	ErrBadRegion  = errors.New("rows and cols must be positive")
	ErrBadOverlap = errors.New("overlap policy encodings must be positive")
)

// Occupant is the minimal agent surface the grid needs: identity for cell
// bookkeeping, encoding for the overlap policy, and a position setter so a
// successful placement records where the occupant ended up.
type Occupant interface {
	AgentID() string
	AgentEncoding() int
	SetPosition(Position)
}

// Grid is a 2D array of cells. Each cell holds the set of co-located
// occupants, keyed by agent id, since the overlap policy may permit several
// agents to share a cell.
type Grid struct {
	rows    int
	cols    int
	overlap map[int]map[int]bool
	cells   [][]map[string]Occupant
}

// New builds a Grid with the given dimensions and overlap policy. The policy
// maps an encoding to the set of encodings it may share a cell with; a nil
// policy permits no overlap at all. Dimensions and the policy are fixed for
// the lifetime of the grid.
func New(rows, cols int, overlap map[int]map[int]bool) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadRegion, rows, cols)
	}
	for encoding, others := range overlap {
		if encoding <= 0 {
			return nil, fmt.Errorf("%w: key %d", ErrBadOverlap, encoding)
		}
		for other := range others {
			if other <= 0 {
				return nil, fmt.Errorf("%w: %d maps to %d", ErrBadOverlap, encoding, other)
			}
		}
	}

	g := &Grid{
		rows:    rows,
		cols:    cols,
		overlap: overlap,
		cells:   make([][]map[string]Occupant, rows),
	}
	for r := range g.cells {
		g.cells[r] = make([]map[string]Occupant, cols)
	}
	g.Reset()
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }

func (g *Grid) Cols() int { return g.cols }

// Reset clears every cell to an empty occupant set. Idempotent.
func (g *Grid) Reset() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = make(map[string]Occupant)
		}
	}
}

// InBounds reports whether the position lies within the grid.
func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.cols
}

// MayOverlap reports whether two encodings are mutually permitted to share a
// cell under the overlap policy.
func (g *Grid) MayOverlap(a, b int) bool {
	return g.overlap[a][b] && g.overlap[b][a]
}

// Query is the non-mutating form of Place: it reports whether the occupant
// could be added to the cell at pos under the overlap policy.
func (g *Grid) Query(o Occupant, pos Position) bool {
	if !g.InBounds(pos) {
		return false
	}
	for _, other := range g.cells[pos.Row][pos.Col] {
		if !g.MayOverlap(o.AgentEncoding(), other.AgentEncoding()) {
			return false
		}
	}
	return true
}

// Place attempts to add the occupant to the cell at pos. On success it
// records the occupant in the cell, updates the occupant's position, and
// returns true. On an incompatible cell it returns false without mutation.
func (g *Grid) Place(o Occupant, pos Position) bool {
	if !g.Query(o, pos) {
		return false
	}
	g.cells[pos.Row][pos.Col][o.AgentID()] = o
	o.SetPosition(pos)
	return true
}

// Remove deletes the occupant from the cell at pos. Removing an occupant that
// is not present is a no-op.
func (g *Grid) Remove(o Occupant, pos Position) {
	if !g.InBounds(pos) {
		return
	}
	delete(g.cells[pos.Row][pos.Col], o.AgentID())
}

// Cell returns the occupant set at (row, col) for inspection by observers.
// The returned map is the live cell; callers must not mutate it.
func (g *Grid) Cell(row, col int) map[string]Occupant {
	return g.cells[row][col]
}
