// Package observer renders agent-centric views of the grid for consumption
// by policies outside this module.
package observer

import (
	"errors"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
)

// GridObserver produces a square window of encodings centered on the
// observing agent: -1 for out-of-bounds cells, 0 for empty cells, otherwise
// the largest encoding among the cell's occupants.
type GridObserver struct {
	Grid *grid.Grid
}

const OutOfBounds = -1

func NewGridObserver(g *grid.Grid) (*GridObserver, error) {
	if g == nil {
		return nil, errors.New("grid observer requires a grid")
	}
	return &GridObserver{Grid: g}, nil
}

// Observe returns a (2v+1)x(2v+1) window around the agent, where v is its
// view range. Agents without the observe capability see nothing.
func (o *GridObserver) Observe(a *agent.Agent) [][]int {
	if !a.Has(agent.CapObserve) {
		return nil
	}

	v := a.ViewRange
	window := make([][]int, 2*v+1)
	for wr := range window {
		window[wr] = make([]int, 2*v+1)
		for wc := range window[wr] {
			pos := grid.Position{
				Row: a.Position.Row + wr - v,
				Col: a.Position.Col + wc - v,
			}
			if !o.Grid.InBounds(pos) {
				window[wr][wc] = OutOfBounds
				continue
			}
			top := 0
			for _, occupant := range o.Grid.Cell(pos.Row, pos.Col) {
				if occupant.AgentEncoding() > top {
					top = occupant.AgentEncoding()
				}
			}
			window[wr][wc] = top
		}
	}
	return window
}
