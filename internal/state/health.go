package state

import (
	"errors"
	"math/rand"

	"gridsim/internal/agent"
)

// HealthState assigns starting health to every agent with the health
// capability: the configured initial health if present, otherwise a uniform
// draw from [0, 1). Agents without the capability are skipped. Independent of
// placement; runs in any order relative to it.
type HealthState struct {
	Agents *agent.Roster
	Rand   *rand.Rand
}

func NewHealthState(agents *agent.Roster, rnd *rand.Rand) (*HealthState, error) {
	if agents == nil {
		return nil, errors.New("health state requires an agent roster")
	}
	if rnd == nil {
		return nil, errors.New("health state requires a random source")
	}
	return &HealthState{Agents: agents, Rand: rnd}, nil
}

func (s *HealthState) Reset() error {
	for _, a := range s.Agents.Agents() {
		if !a.Has(agent.CapHealth) {
			continue
		}
		if a.InitialHealth != nil {
			a.Health = *a.InitialHealth
		} else {
			a.Health = s.Rand.Float64()
		}
	}
	return nil
}
