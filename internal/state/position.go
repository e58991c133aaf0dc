package state

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
)

// PositionState produces a legal full placement of all agents at episode
// start. Agents with fixed initial positions are placed first, then the rest
// are placed uniformly at random over the cells still available for their
// encoding. Availability is tracked per encoding as a sorted list of
// ravelled cell indices and rebuilt on every reset.
type PositionState struct {
	Grid   *grid.Grid
	Agents *agent.Roster
	Rand   *rand.Rand

	available map[int][]int
}

func NewPositionState(g *grid.Grid, agents *agent.Roster, rnd *rand.Rand) (*PositionState, error) {
	if g == nil {
		return nil, errors.New("position state requires a grid")
	}
	if agents == nil {
		return nil, errors.New("position state requires an agent roster")
	}
	if rnd == nil {
		return nil, errors.New("position state requires a random source")
	}
	return &PositionState{Grid: g, Agents: agents, Rand: rnd}, nil
}

// Reset clears the grid and places every agent: fixed initial positions
// first, then random placements, preserving roster order within each pass.
func (s *PositionState) Reset() error {
	s.Grid.Reset()
	s.buildAvailable()

	for _, a := range s.Agents.Agents() {
		if a.InitialPosition != nil {
			if err := s.placeFixed(a); err != nil {
				return err
			}
		}
	}
	for _, a := range s.Agents.Agents() {
		if a.InitialPosition == nil {
			if err := s.placeRandom(a); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildAvailable starts every encoding from 1 up to the roster's maximum
// with the full set of ravelled cell indices.
func (s *PositionState) buildAvailable() {
	cells := s.Grid.Rows() * s.Grid.Cols()
	s.available = make(map[int][]int)
	for encoding := 1; encoding <= s.Agents.MaxEncoding(); encoding++ {
		all := make([]int, cells)
		for i := range all {
			all[i] = i
		}
		s.available[encoding] = all
	}
}

func (s *PositionState) placeFixed(a *agent.Agent) error {
	pos := *a.InitialPosition
	if !s.cellAvailable(a.Encoding, pos.Ravel(s.Grid.Cols())) {
		return fmt.Errorf("%w: cell %s is not available for %s", ErrInvalidConfig, pos, a.ID)
	}
	return s.commit(a, pos)
}

func (s *PositionState) placeRandom(a *agent.Agent) error {
	cells := s.available[a.Encoding]
	if len(cells) == 0 {
		return fmt.Errorf("%w for %s", ErrNoCellAvailable, a.ID)
	}
	n := cells[s.Rand.Intn(len(cells))]
	return s.commit(a, grid.Unravel(n, s.Grid.Cols()))
}

// commit places the agent at a cell that availability tracking has already
// vetted, so a refusal from the grid is a defect.
func (s *PositionState) commit(a *agent.Agent, pos grid.Position) error {
	if !s.Grid.Place(a, pos) {
		return fmt.Errorf("%w: grid refused %s at %s", ErrInvariant, a.ID, pos)
	}
	a.Active = true
	s.updateAvailable(a)
	return nil
}

// updateAvailable removes the just-placed agent's cell from every encoding
// that may not share a cell with it. The cell may already be gone from some
// encodings; that is fine.
func (s *PositionState) updateAvailable(placed *agent.Agent) {
	n := placed.Position.Ravel(s.Grid.Cols())
	for encoding, cells := range s.available {
		if s.Grid.MayOverlap(encoding, placed.Encoding) {
			continue
		}
		if i, ok := slices.BinarySearch(cells, n); ok {
			s.available[encoding] = slices.Delete(cells, i, i+1)
		}
	}
}

func (s *PositionState) cellAvailable(encoding, n int) bool {
	_, ok := slices.BinarySearch(s.available[encoding], n)
	return ok
}
