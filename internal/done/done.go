// Package done holds episode termination conditions.
package done

import (
	"errors"

	"gridsim/internal/agent"
)

// Condition decides when an individual agent, or the whole episode, is done.
type Condition interface {
	Done(a *agent.Agent) bool
	AllDone() bool
}

// ActiveDone finishes an agent when it is no longer active and the episode
// when no active agents remain.
type ActiveDone struct {
	Agents *agent.Roster
}

func NewActiveDone(agents *agent.Roster) (*ActiveDone, error) {
	if agents == nil {
		return nil, errors.New("done condition requires an agent roster")
	}
	return &ActiveDone{Agents: agents}, nil
}

func (d *ActiveDone) Done(a *agent.Agent) bool {
	return !a.Active
}

func (d *ActiveDone) AllDone() bool {
	for _, a := range d.Agents.Agents() {
		if a.Active {
			return false
		}
	}
	return true
}

// OneTeamRemainingDone finishes the episode when every remaining active
// team-capable agent belongs to the same team. Individual agents finish when
// inactive.
type OneTeamRemainingDone struct {
	Agents *agent.Roster
}

func NewOneTeamRemainingDone(agents *agent.Roster) (*OneTeamRemainingDone, error) {
	if agents == nil {
		return nil, errors.New("done condition requires an agent roster")
	}
	for _, a := range agents.Agents() {
		if a.Has(agent.CapTeam) {
			return &OneTeamRemainingDone{Agents: agents}, nil
		}
	}
	return nil, errors.New("one-team-remaining requires at least one team-capable agent")
}

func (d *OneTeamRemainingDone) Done(a *agent.Agent) bool {
	return !a.Active
}

func (d *OneTeamRemainingDone) AllDone() bool {
	team := 0
	seen := false
	for _, a := range d.Agents.Agents() {
		if !a.Active || !a.Has(agent.CapTeam) {
			continue
		}
		if seen && a.Team != team {
			return false
		}
		team = a.Team
		seen = true
	}
	return true
}
