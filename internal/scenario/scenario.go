// Package scenario loads simulation definitions from YAML files and builds
// runnable simulations out of them.
package scenario

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
	"gridsim/internal/sim"
	"gridsim/internal/state"
)

// Scenario is the file format for a simulation setup plus episode-run
// parameters. Unknown fields are rejected at decode time.
type Scenario struct {
	Name     string `yaml:"name"`
	Rows     int    `yaml:"rows"`
	Cols     int    `yaml:"cols"`
	Seed     int64  `yaml:"seed"`
	Episodes int    `yaml:"episodes"`
	MaxSteps int    `yaml:"max_steps"`
	Done     string `yaml:"done"`

	// Overlap and Attack map an encoding to the encodings it may share a
	// cell with, respectively attack.
	Overlap map[int][]int `yaml:"overlap"`
	Attack  map[int][]int `yaml:"attack"`

	Placement Placement   `yaml:"placement"`
	Agents    []AgentSpec `yaml:"agents"`
}

type Placement struct {
	Kind                    string `yaml:"kind"` // uniform (default) or maze
	Target                  string `yaml:"target"`
	BarrierEncodings        []int  `yaml:"barrier_encodings"`
	FreeEncodings           []int  `yaml:"free_encodings"`
	BarriersNearTarget      bool   `yaml:"barriers_near_target"`
	FreeAgentsFarFromTarget bool   `yaml:"free_agents_far_from_target"`
}

type AgentSpec struct {
	ID             string   `yaml:"id"`
	Encoding       int      `yaml:"encoding"`
	Position       []int    `yaml:"position"` // optional [row, col]
	Health         *float64 `yaml:"health"`
	Capabilities   []string `yaml:"capabilities"`
	MoveRange      int      `yaml:"move_range"`
	AttackRange    int      `yaml:"attack_range"`
	AttackStrength float64  `yaml:"attack_strength"`
	Team           int      `yaml:"team"`
	ViewRange      int      `yaml:"view_range"`
}

const (
	defaultEpisodes = 1
	defaultMaxSteps = 50
)

// Load reads and validates a scenario file.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario from YAML bytes, strictly.
func Parse(data []byte) (Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("scenario: decode: %w", err)
	}
	if s.Episodes == 0 {
		s.Episodes = defaultEpisodes
	}
	if s.MaxSteps == 0 {
		s.MaxSteps = defaultMaxSteps
	}
	if err := s.validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

func (s Scenario) validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("scenario: rows and cols must be positive, got %dx%d", s.Rows, s.Cols)
	}
	if s.Episodes < 0 || s.MaxSteps < 0 {
		return fmt.Errorf("scenario: episodes and max_steps must not be negative")
	}
	if len(s.Agents) == 0 {
		return fmt.Errorf("scenario: at least one agent is required")
	}
	switch s.Placement.Kind {
	case "", "uniform":
	case "maze":
		if s.Placement.Target == "" {
			return fmt.Errorf("scenario: maze placement requires a target agent")
		}
	default:
		return fmt.Errorf("scenario: unknown placement kind %q", s.Placement.Kind)
	}
	for i, spec := range s.Agents {
		if spec.ID == "" {
			return fmt.Errorf("scenario: agent %d has no id", i)
		}
		if len(spec.Position) != 0 && len(spec.Position) != 2 {
			return fmt.Errorf("scenario: agent %s position must be [row, col]", spec.ID)
		}
		for _, c := range spec.Capabilities {
			if _, err := parseCapability(c); err != nil {
				return fmt.Errorf("scenario: agent %s: %w", spec.ID, err)
			}
		}
	}
	return nil
}

// Build assembles a simulation from the scenario using the given random
// source.
func (s Scenario) Build(rnd *rand.Rand) (*sim.Simulation, error) {
	agents := make([]*agent.Agent, 0, len(s.Agents))
	for _, spec := range s.Agents {
		cfg := agent.Config{
			ID:             spec.ID,
			Encoding:       spec.Encoding,
			InitialHealth:  spec.Health,
			MoveRange:      spec.MoveRange,
			AttackRange:    spec.AttackRange,
			AttackStrength: spec.AttackStrength,
			Team:           spec.Team,
			ViewRange:      spec.ViewRange,
		}
		if len(spec.Position) == 2 {
			cfg.InitialPosition = &grid.Position{Row: spec.Position[0], Col: spec.Position[1]}
		}
		for _, c := range spec.Capabilities {
			capability, err := parseCapability(c)
			if err != nil {
				return nil, err
			}
			cfg.Capabilities = append(cfg.Capabilities, capability)
		}
		a, err := agent.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
		agents = append(agents, a)
	}

	cfg := sim.Config{
		Rows:          s.Rows,
		Cols:          s.Cols,
		Agents:        agents,
		Overlap:       toPolicy(s.Overlap),
		AttackMapping: toPolicy(s.Attack),
		Done:          s.Done,
		Rand:          rnd,
	}
	if s.Placement.Kind == "maze" {
		cfg.Maze = &state.MazeConfig{
			TargetAgent:             s.Placement.Target,
			BarrierEncodings:        toSet(s.Placement.BarrierEncodings),
			FreeEncodings:           toSet(s.Placement.FreeEncodings),
			BarriersNearTarget:      s.Placement.BarriersNearTarget,
			FreeAgentsFarFromTarget: s.Placement.FreeAgentsFarFromTarget,
		}
	}
	return sim.Build(cfg)
}

func parseCapability(name string) (agent.Capability, error) {
	switch name {
	case "health":
		return agent.CapHealth, nil
	case "move":
		return agent.CapMove, nil
	case "attack":
		return agent.CapAttack, nil
	case "team":
		return agent.CapTeam, nil
	case "observe":
		return agent.CapObserve, nil
	default:
		return 0, fmt.Errorf("unknown capability %q", name)
	}
}

func toPolicy(m map[int][]int) map[int]map[int]bool {
	if len(m) == 0 {
		return nil
	}
	out := make(map[int]map[int]bool, len(m))
	for encoding, others := range m {
		set := make(map[int]bool, len(others))
		for _, other := range others {
			set[other] = true
		}
		out[encoding] = set
	}
	return out
}

func toSet(xs []int) map[int]bool {
	out := make(map[int]bool, len(xs))
	for _, x := range xs {
		out[x] = true
	}
	return out
}
