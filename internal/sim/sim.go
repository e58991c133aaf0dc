// Package sim wires the grid, state, actor, observer, and done components
// into a steppable multi-agent simulation.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"gridsim/internal/actor"
	"gridsim/internal/agent"
	"gridsim/internal/done"
	"gridsim/internal/grid"
	"gridsim/internal/observer"
	"gridsim/internal/state"
)

// Move is a relative position change.
type Move struct {
	DRow int
	DCol int
}

// Action is one agent's choice for a step.
type Action struct {
	Move   *Move
	Attack bool
}

// Done condition kinds.
const (
	DoneActive           = "active"
	DoneOneTeamRemaining = "one_team_remaining"
)

// Config assembles a simulation. Rows, Cols, and Agents are required; the
// overlap and attack mappings default to empty (no overlap, no attacks);
// Maze switches placement from uniform-random to maze-based.
type Config struct {
	Rows   int
	Cols   int
	Agents []*agent.Agent

	Overlap       map[int]map[int]bool
	AttackMapping map[int]map[int]bool
	Maze          *state.MazeConfig
	Done          string
	Rand          *rand.Rand
}

// Simulation owns one episode's worth of state. Reset and Step run to
// completion on the calling goroutine; concurrent use is not supported.
type Simulation struct {
	grid     *grid.Grid
	agents   *agent.Roster
	position state.Component
	health   *state.HealthState
	move     *actor.MoveActor
	attack   *actor.AttackActor
	observer *observer.GridObserver
	done     done.Condition
	rand     *rand.Rand

	steps int
}

// Build validates the config and constructs a simulation. All configuration
// errors surface here, before any episode state exists.
func Build(cfg Config) (*Simulation, error) {
	if cfg.Rand == nil {
		return nil, errors.New("sim: a random source is required")
	}
	g, err := grid.New(cfg.Rows, cfg.Cols, cfg.Overlap)
	if err != nil {
		return nil, err
	}
	roster, err := agent.NewRoster(cfg.Agents...)
	if err != nil {
		return nil, err
	}
	for _, a := range roster.Agents() {
		if a.InitialPosition != nil && !g.InBounds(*a.InitialPosition) {
			return nil, fmt.Errorf("sim: agent %s has initial position %s outside %dx%d",
				a.ID, *a.InitialPosition, cfg.Rows, cfg.Cols)
		}
	}

	base, err := state.NewPositionState(g, roster, cfg.Rand)
	if err != nil {
		return nil, err
	}
	var position state.Component = base
	if cfg.Maze != nil {
		position, err = state.NewMazePlacementState(base, *cfg.Maze)
		if err != nil {
			return nil, err
		}
	}
	health, err := state.NewHealthState(roster, cfg.Rand)
	if err != nil {
		return nil, err
	}
	move, err := actor.NewMoveActor(g)
	if err != nil {
		return nil, err
	}
	attack, err := actor.NewAttackActor(g, roster, cfg.AttackMapping, cfg.Rand)
	if err != nil {
		return nil, err
	}
	obs, err := observer.NewGridObserver(g)
	if err != nil {
		return nil, err
	}

	var cond done.Condition
	switch cfg.Done {
	case "", DoneActive:
		cond, err = done.NewActiveDone(roster)
	case DoneOneTeamRemaining:
		cond, err = done.NewOneTeamRemainingDone(roster)
	default:
		err = fmt.Errorf("sim: unknown done condition %q", cfg.Done)
	}
	if err != nil {
		return nil, err
	}

	return &Simulation{
		grid:     g,
		agents:   roster,
		position: position,
		health:   health,
		move:     move,
		attack:   attack,
		observer: obs,
		done:     cond,
		rand:     cfg.Rand,
	}, nil
}

// Reset builds a fresh episode: full placement, then health assignment.
// On error no valid episode exists and the simulation must not be stepped.
func (s *Simulation) Reset() error {
	if err := s.position.Reset(); err != nil {
		return err
	}
	if err := s.health.Reset(); err != nil {
		return err
	}
	s.steps = 0
	return nil
}

// Step applies one action per agent: attacks resolve first, then moves.
// Iteration follows roster order so a seeded run replays identically.
func (s *Simulation) Step(actions map[string]Action) error {
	for id := range actions {
		if _, ok := s.agents.Get(id); !ok {
			return fmt.Errorf("sim: action for unknown agent %s", id)
		}
	}

	for _, a := range s.agents.Agents() {
		if act, ok := actions[a.ID]; ok && act.Attack {
			s.attack.ProcessAttack(a)
		}
	}
	for _, a := range s.agents.Agents() {
		act, ok := actions[a.ID]
		if !ok || act.Move == nil {
			continue
		}
		if _, err := s.move.ProcessMove(a, act.Move.DRow, act.Move.DCol); err != nil {
			return err
		}
	}
	s.steps++
	return nil
}

// Observe returns the agent's grid window, or nil for non-observing agents.
func (s *Simulation) Observe(id string) ([][]int, error) {
	a, ok := s.agents.Get(id)
	if !ok {
		return nil, fmt.Errorf("sim: unknown agent %s", id)
	}
	return s.observer.Observe(a), nil
}

// AgentDone reports whether a single agent is finished.
func (s *Simulation) AgentDone(id string) (bool, error) {
	a, ok := s.agents.Get(id)
	if !ok {
		return false, fmt.Errorf("sim: unknown agent %s", id)
	}
	return s.done.Done(a), nil
}

// Done reports whether the episode is finished.
func (s *Simulation) Done() bool {
	return s.done.AllDone()
}

// Steps returns the number of steps taken since the last reset.
func (s *Simulation) Steps() int {
	return s.steps
}

// Grid exposes the underlying grid for observers outside this package.
func (s *Simulation) Grid() *grid.Grid {
	return s.grid
}

// Agents exposes the roster.
func (s *Simulation) Agents() *agent.Roster {
	return s.agents
}

// RandomActions draws a random action for every active agent: a move within
// the agent's range if it can move, an attack flip if it can attack. Used to
// drive scripted episodes without an external policy.
func (s *Simulation) RandomActions() map[string]Action {
	actions := make(map[string]Action)
	for _, a := range s.agents.Agents() {
		if !a.Active {
			continue
		}
		var act Action
		if a.Has(agent.CapMove) {
			act.Move = &Move{
				DRow: s.rand.Intn(2*a.MoveRange+1) - a.MoveRange,
				DCol: s.rand.Intn(2*a.MoveRange+1) - a.MoveRange,
			}
		}
		if a.Has(agent.CapAttack) {
			act.Attack = s.rand.Intn(2) == 1
		}
		if act.Move != nil || act.Attack {
			actions[a.ID] = act
		}
	}
	return actions
}
