// Package actor holds the components that apply agent actions during a step:
// movement and attacks, both validated against the grid's overlap policy.
package actor

import (
	"errors"
	"fmt"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
)

var ErrMoveOutOfRange = errors.New("move exceeds the agent's range")

// MoveActor applies relative moves. A move is committed only if the
// destination cell accepts the agent under the overlap policy; a blocked
// move leaves the agent where it is.
type MoveActor struct {
	Grid *grid.Grid
}

func NewMoveActor(g *grid.Grid) (*MoveActor, error) {
	if g == nil {
		return nil, errors.New("move actor requires a grid")
	}
	return &MoveActor{Grid: g}, nil
}

// ProcessMove moves the agent by (dRow, dCol). It reports whether the move
// was committed. Inactive agents and agents without the move capability are
// no-ops; deltas beyond the agent's move range are an error.
func (m *MoveActor) ProcessMove(a *agent.Agent, dRow, dCol int) (bool, error) {
	if !a.Active || !a.Has(agent.CapMove) {
		return false, nil
	}
	if abs(dRow) > a.MoveRange || abs(dCol) > a.MoveRange {
		return false, fmt.Errorf("%w: %s moved (%d, %d) with range %d",
			ErrMoveOutOfRange, a.ID, dRow, dCol, a.MoveRange)
	}

	from := a.Position
	to := grid.Position{Row: from.Row + dRow, Col: from.Col + dCol}
	if to == from {
		return true, nil
	}

	m.Grid.Remove(a, from)
	if m.Grid.Place(a, to) {
		return true, nil
	}
	// Destination refused; reclaim the original cell. It only held this
	// agent's own slot, so the placement cannot fail.
	if !m.Grid.Place(a, from) {
		return false, fmt.Errorf("could not restore %s to %s after blocked move", a.ID, from)
	}
	return false, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
