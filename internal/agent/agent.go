package agent

import (
	"errors"
	"fmt"

	"gridsim/internal/grid"
)

// Capability tags what an agent can do. Components query capabilities with
// Has instead of type-asserting through a hierarchy.
type Capability uint8

const (
	CapHealth Capability = iota + 1
	CapMove
	CapAttack
	CapTeam
	CapObserve
)

func (c Capability) String() string {
	switch c {
	case CapHealth:
		return "health"
	case CapMove:
		return "move"
	case CapAttack:
		return "attack"
	case CapTeam:
		return "team"
	case CapObserve:
		return "observe"
	default:
		return fmt.Sprintf("capability(%d)", uint8(c))
	}
}

var (
	ErrMissingID   = errors.New("agent id is required")
	ErrBadEncoding = errors.New("agent encoding must be a positive integer")
)

// Config describes an agent before the simulation is built. All validation
// happens in New; a Config that passes produces an Agent whose fixed
// attributes never change afterwards.
type Config struct {
	ID              string
	Encoding        int
	InitialPosition *grid.Position
	InitialHealth   *float64
	Capabilities    []Capability

	MoveRange      int
	AttackRange    int
	AttackStrength float64
	Team           int
	ViewRange      int
}

// Agent is a participant in the simulation. Identity, encoding, and
// capability attributes are fixed at construction; Position, Health, and
// Active are episode state mutated by the state components.
type Agent struct {
	ID              string
	Encoding        int
	InitialPosition *grid.Position
	InitialHealth   *float64

	MoveRange      int
	AttackRange    int
	AttackStrength float64
	Team           int
	ViewRange      int

	caps map[Capability]bool

	Position grid.Position
	Health   float64
	Active   bool
}

// New validates the config and builds an Agent.
func New(cfg Config) (*Agent, error) {
	if cfg.ID == "" {
		return nil, ErrMissingID
	}
	if cfg.Encoding <= 0 {
		return nil, fmt.Errorf("%w: agent %s has encoding %d", ErrBadEncoding, cfg.ID, cfg.Encoding)
	}
	if cfg.InitialHealth != nil && (*cfg.InitialHealth < 0 || *cfg.InitialHealth > 1) {
		return nil, fmt.Errorf("agent %s: initial health must be in [0, 1], got %f", cfg.ID, *cfg.InitialHealth)
	}
	if cfg.MoveRange < 0 {
		return nil, fmt.Errorf("agent %s: move range must not be negative", cfg.ID)
	}
	if cfg.AttackRange < 0 {
		return nil, fmt.Errorf("agent %s: attack range must not be negative", cfg.ID)
	}
	if cfg.AttackStrength < 0 {
		return nil, fmt.Errorf("agent %s: attack strength must not be negative", cfg.ID)
	}
	if cfg.ViewRange < 0 {
		return nil, fmt.Errorf("agent %s: view range must not be negative", cfg.ID)
	}

	caps := make(map[Capability]bool, len(cfg.Capabilities))
	for _, c := range cfg.Capabilities {
		caps[c] = true
	}

	a := &Agent{
		ID:              cfg.ID,
		Encoding:        cfg.Encoding,
		InitialPosition: cfg.InitialPosition,
		InitialHealth:   cfg.InitialHealth,
		MoveRange:       cfg.MoveRange,
		AttackRange:     cfg.AttackRange,
		AttackStrength:  cfg.AttackStrength,
		Team:            cfg.Team,
		ViewRange:       cfg.ViewRange,
		caps:            caps,
	}
	if cfg.InitialHealth != nil {
		caps[CapHealth] = true
	}
	return a, nil
}

// Has reports whether the agent carries the capability.
func (a *Agent) Has(c Capability) bool {
	return a.caps[c]
}

// AgentID implements grid.Occupant.
func (a *Agent) AgentID() string { return a.ID }

// AgentEncoding implements grid.Occupant.
func (a *Agent) AgentEncoding() int { return a.Encoding }

// SetPosition implements grid.Occupant.
func (a *Agent) SetPosition(pos grid.Position) { a.Position = pos }
