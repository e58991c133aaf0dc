package actor

import (
	"errors"
	"fmt"
	"math/rand"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
)

// AttackActor resolves attack actions. The attack mapping is the analog of
// the overlap policy: it maps an encoding to the set of encodings it may
// attack. A successful attack subtracts the attacker's strength from the
// victim's health; an agent whose health reaches zero is removed from the
// grid and deactivated.
type AttackActor struct {
	Grid    *grid.Grid
	Agents  *agent.Roster
	Mapping map[int]map[int]bool
	Rand    *rand.Rand
}

func NewAttackActor(g *grid.Grid, agents *agent.Roster, mapping map[int]map[int]bool, rnd *rand.Rand) (*AttackActor, error) {
	if g == nil {
		return nil, errors.New("attack actor requires a grid")
	}
	if agents == nil {
		return nil, errors.New("attack actor requires an agent roster")
	}
	if rnd == nil {
		return nil, errors.New("attack actor requires a random source")
	}
	for encoding, others := range mapping {
		if encoding <= 0 {
			return nil, fmt.Errorf("attack mapping: encoding %d must be positive", encoding)
		}
		for other := range others {
			if other <= 0 {
				return nil, fmt.Errorf("attack mapping: %d maps to %d", encoding, other)
			}
		}
	}
	return &AttackActor{Grid: g, Agents: agents, Mapping: mapping, Rand: rnd}, nil
}

// ProcessAttack picks a random attackable agent within the attacker's range
// and applies the attacker's strength to its health. It returns the victim,
// or nil when no eligible target exists or the attacker cannot attack.
func (x *AttackActor) ProcessAttack(attacker *agent.Agent) *agent.Agent {
	if !attacker.Active || !attacker.Has(agent.CapAttack) {
		return nil
	}

	var candidates []*agent.Agent
	for _, other := range x.Agents.Agents() {
		if other == attacker || !other.Active || !other.Has(agent.CapHealth) {
			continue
		}
		if !x.Mapping[attacker.Encoding][other.Encoding] {
			continue
		}
		if chebyshev(attacker.Position, other.Position) > attacker.AttackRange {
			continue
		}
		candidates = append(candidates, other)
	}
	if len(candidates) == 0 {
		return nil
	}

	victim := candidates[x.Rand.Intn(len(candidates))]
	victim.Health -= attacker.AttackStrength
	if victim.Health <= 0 {
		victim.Health = 0
		victim.Active = false
		x.Grid.Remove(victim, victim.Position)
	}
	return victim
}

func chebyshev(a, b grid.Position) int {
	dr := abs(a.Row - b.Row)
	dc := abs(a.Col - b.Col)
	if dr > dc {
		return dr
	}
	return dc
}
