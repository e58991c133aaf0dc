// Package maze generates randomized maze partitions of a grid using Prim's
// algorithm. The output classifies every cell as free (0) or barrier (1);
// the free cells form a spanning tree reachable from the anchor cell.
package maze

import (
	"errors"
	"fmt"
	"math/rand"

	"gridsim/internal/grid"
)

const (
	Free    = 0
	Barrier = 1
)

var ErrBadAnchor = errors.New("maze anchor is out of bounds")

// Generator carves a maze over a rows x cols grid. The random source is
// required; maze layout is fully determined by it and the anchor.
type Generator struct {
	Rows int
	Cols int
	Rand *rand.Rand
}

type cellState uint8

const (
	undecided cellState = iota
	carvedFree
	fixedBarrier
)

// Generate carves a maze anchored at start. It maintains a frontier of wall
// cells adjacent to the carved region, repeatedly picks a random frontier
// cell, and carves it free only if that does not connect two already-free
// regions. Cells never reached stay barriers.
func (g Generator) Generate(start grid.Position) ([][]int, error) {
	if g.Rows <= 0 || g.Cols <= 0 {
		return nil, fmt.Errorf("maze dimensions must be positive, got %dx%d", g.Rows, g.Cols)
	}
	if g.Rand == nil {
		return nil, errors.New("maze generator requires a random source")
	}
	if start.Row < 0 || start.Row >= g.Rows || start.Col < 0 || start.Col >= g.Cols {
		return nil, fmt.Errorf("%w: %s in %dx%d", ErrBadAnchor, start, g.Rows, g.Cols)
	}

	states := make([][]cellState, g.Rows)
	for r := range states {
		states[r] = make([]cellState, g.Cols)
	}

	states[start.Row][start.Col] = carvedFree
	frontier := g.neighbors(start)

	for len(frontier) > 0 {
		i := g.Rand.Intn(len(frontier))
		pos := frontier[i]
		frontier[i] = frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		if states[pos.Row][pos.Col] != undecided {
			continue
		}

		// Carving is legal only while the cell touches exactly one free
		// cell; two or more would join separate free regions into a cycle.
		free := 0
		for _, n := range g.neighbors(pos) {
			if states[n.Row][n.Col] == carvedFree {
				free++
			}
		}
		if free != 1 {
			states[pos.Row][pos.Col] = fixedBarrier
			continue
		}

		states[pos.Row][pos.Col] = carvedFree
		for _, n := range g.neighbors(pos) {
			if states[n.Row][n.Col] == undecided {
				frontier = append(frontier, n)
			}
		}
	}

	maze := make([][]int, g.Rows)
	for r := range maze {
		maze[r] = make([]int, g.Cols)
		for c := range maze[r] {
			if states[r][c] == carvedFree {
				maze[r][c] = Free
			} else {
				maze[r][c] = Barrier
			}
		}
	}
	return maze, nil
}

func (g Generator) neighbors(pos grid.Position) []grid.Position {
	candidates := [4]grid.Position{
		{Row: pos.Row - 1, Col: pos.Col},
		{Row: pos.Row + 1, Col: pos.Col},
		{Row: pos.Row, Col: pos.Col - 1},
		{Row: pos.Row, Col: pos.Col + 1},
	}
	out := make([]grid.Position, 0, 4)
	for _, n := range candidates {
		if n.Row >= 0 && n.Row < g.Rows && n.Col >= 0 && n.Col < g.Cols {
			out = append(out, n)
		}
	}
	return out
}
