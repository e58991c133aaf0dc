package state

import (
	"fmt"
	"slices"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
	"gridsim/internal/maze"
)

// MazeConfig configures maze-based placement on top of a PositionState.
type MazeConfig struct {
	// TargetAgent anchors the maze and is placed at the anchor cell.
	TargetAgent string
	// BarrierEncodings and FreeEncodings partition all agent encodings:
	// barrier-encoded agents are placed on maze barrier cells, free-encoded
	// agents on free cells.
	BarrierEncodings map[int]bool
	FreeEncodings    map[int]bool
	// BarriersNearTarget prioritizes barrier placements closest to the
	// target; FreeAgentsFarFromTarget prioritizes free placements farthest
	// from it.
	BarriersNearTarget      bool
	FreeAgentsFarFromTarget bool
}

// MazePlacementState places agents according to a maze generated fresh each
// reset, anchored at the target agent. Barrier-encoded agents land on maze
// barriers and free-encoded agents on free cells, optionally ordered by
// distance from the target.
type MazePlacementState struct {
	*PositionState

	Target *agent.Agent
	Config MazeConfig

	start        grid.Position
	lastMaze     [][]int
	barrierQueue []int
	freeQueue    []int
}

func NewMazePlacementState(base *PositionState, cfg MazeConfig) (*MazePlacementState, error) {
	if base == nil {
		return nil, fmt.Errorf("maze placement requires a position state")
	}
	target, ok := base.Agents.Get(cfg.TargetAgent)
	if !ok {
		return nil, fmt.Errorf("%w: target agent %q is not in the roster", ErrInvalidConfig, cfg.TargetAgent)
	}
	for encoding := range cfg.BarrierEncodings {
		if encoding <= 0 {
			return nil, fmt.Errorf("%w: barrier encoding %d", ErrInvalidConfig, encoding)
		}
		if cfg.FreeEncodings[encoding] {
			return nil, fmt.Errorf("%w: encoding %d is both barrier and free", ErrInvalidConfig, encoding)
		}
	}
	for encoding := range cfg.FreeEncodings {
		if encoding <= 0 {
			return nil, fmt.Errorf("%w: free encoding %d", ErrInvalidConfig, encoding)
		}
	}
	return &MazePlacementState{PositionState: base, Target: target, Config: cfg}, nil
}

// Reset generates a maze anchored at the target, places the target at the
// anchor, then places fixed-position agents, then the rest: popping from the
// distance-ordered barrier/free queues when the matching priority flag is
// set, falling back to the base uniform draw otherwise.
func (s *MazePlacementState) Reset() error {
	s.Grid.Reset()
	if err := s.buildMazeAvailable(); err != nil {
		return err
	}

	// The anchor cell is carved free on an otherwise empty grid, so a
	// refusal here is a defect.
	if !s.Grid.Place(s.Target, s.start) {
		return fmt.Errorf("%w: grid refused target %s at %s", ErrInvariant, s.Target.ID, s.start)
	}
	s.Target.Active = true
	s.updateAvailable(s.Target)

	for _, a := range s.Agents.Agents() {
		if a == s.Target || a.InitialPosition == nil {
			continue
		}
		if err := s.placeFixed(a); err != nil {
			return err
		}
	}
	for _, a := range s.Agents.Agents() {
		if a == s.Target || a.InitialPosition != nil {
			continue
		}
		var err error
		switch {
		case s.Config.BarrierEncodings[a.Encoding] && s.Config.BarriersNearTarget:
			err = s.placeFromQueue(a, &s.barrierQueue)
		case s.Config.FreeEncodings[a.Encoding] && s.Config.FreeAgentsFarFromTarget:
			err = s.placeFromQueue(a, &s.freeQueue)
		default:
			err = s.placeRandom(a)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// buildMazeAvailable generates the maze and derives per-encoding
// availability from its barrier/free partition, plus the distance-ordered
// queues for priority placement.
func (s *MazePlacementState) buildMazeAvailable() error {
	if n := len(s.Config.BarrierEncodings) + len(s.Config.FreeEncodings); n != s.Agents.MaxEncoding() {
		return fmt.Errorf(
			"%w: %d encodings classified as barrier or free, want %d",
			ErrInvalidConfig, n, s.Agents.MaxEncoding(),
		)
	}

	if s.Target.InitialPosition != nil {
		s.start = *s.Target.InitialPosition
	} else {
		n := s.Rand.Intn(s.Grid.Rows() * s.Grid.Cols())
		s.start = grid.Unravel(n, s.Grid.Cols())
	}

	gen := maze.Generator{Rows: s.Grid.Rows(), Cols: s.Grid.Cols(), Rand: s.Rand}
	m, err := gen.Generate(s.start)
	if err != nil {
		return err
	}
	s.lastMaze = m

	var barrier, free []int
	for r := range m {
		for c := range m[r] {
			n := grid.Position{Row: r, Col: c}.Ravel(s.Grid.Cols())
			if m[r][c] == maze.Barrier {
				barrier = append(barrier, n)
			} else {
				free = append(free, n)
			}
		}
	}

	s.available = make(map[int][]int)
	for encoding := range s.Config.BarrierEncodings {
		s.available[encoding] = slices.Clone(barrier)
	}
	for encoding := range s.Config.FreeEncodings {
		s.available[encoding] = slices.Clone(free)
	}

	// Queues are consumed from the end: barriers sorted farthest-first so
	// the nearest cells pop first, free cells nearest-first so the farthest
	// pop first. Ties break on the ravelled index to keep draws seeded.
	s.barrierQueue = nil
	s.freeQueue = nil
	if s.Config.BarriersNearTarget {
		s.barrierQueue = slices.Clone(barrier)
		slices.SortFunc(s.barrierQueue, func(a, b int) int {
			if d := s.distance(b) - s.distance(a); d != 0 {
				return d
			}
			return a - b
		})
	}
	if s.Config.FreeAgentsFarFromTarget {
		s.freeQueue = slices.Clone(free)
		slices.SortFunc(s.freeQueue, func(a, b int) int {
			if d := s.distance(a) - s.distance(b); d != 0 {
				return d
			}
			return a - b
		})
	}
	return nil
}

// placeFromQueue pops cells from the end of the queue until one is still
// available for the agent's encoding. Cells consumed by earlier placements
// are skipped.
func (s *MazePlacementState) placeFromQueue(a *agent.Agent, queue *[]int) error {
	for len(*queue) > 0 {
		n := (*queue)[len(*queue)-1]
		*queue = (*queue)[:len(*queue)-1]
		if !s.cellAvailable(a.Encoding, n) {
			continue
		}
		return s.commit(a, grid.Unravel(n, s.Grid.Cols()))
	}
	return fmt.Errorf("%w for %s", ErrNoCellAvailable, a.ID)
}

func (s *MazePlacementState) distance(n int) int {
	return grid.Manhattan(grid.Unravel(n, s.Grid.Cols()), s.start)
}

// Start returns the maze anchor cell of the last reset.
func (s *MazePlacementState) Start() grid.Position {
	return s.start
}

// Maze returns the maze generated by the last reset; barrier cells are 1,
// free cells 0.
func (s *MazePlacementState) Maze() [][]int {
	return s.lastMaze
}
