package agent

import "fmt"

// Roster is an insertion-ordered agent collection. Placement determinism
// depends on the order agents were added, so iteration always runs in
// insertion order even though lookup is by id.
type Roster struct {
	order []*Agent
	byID  map[string]*Agent
}

func NewRoster(agents ...*Agent) (*Roster, error) {
	r := &Roster{byID: make(map[string]*Agent, len(agents))}
	for _, a := range agents {
		if err := r.Add(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Roster) Add(a *Agent) error {
	if a == nil {
		return fmt.Errorf("roster: agent is nil")
	}
	if _, exists := r.byID[a.ID]; exists {
		return fmt.Errorf("roster: duplicate agent id %s", a.ID)
	}
	r.order = append(r.order, a)
	r.byID[a.ID] = a
	return nil
}

func (r *Roster) Get(id string) (*Agent, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Agents returns the agents in insertion order. The returned slice is the
// roster's backing slice; callers must not mutate it.
func (r *Roster) Agents() []*Agent {
	return r.order
}

func (r *Roster) Len() int {
	return len(r.order)
}

// MaxEncoding returns the largest encoding present, or zero for an empty
// roster.
func (r *Roster) MaxEncoding() int {
	max := 0
	for _, a := range r.order {
		if a.Encoding > max {
			max = a.Encoding
		}
	}
	return max
}
