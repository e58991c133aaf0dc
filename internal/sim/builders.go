package sim

import (
	"fmt"
	"os"
	"strings"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
)

// Registry maps a grid character to an agent factory. The factory receives a
// running count of agents built so far, conventionally used to derive unique
// ids. The characters '.', '_', and '0' are reserved for empty cells.
type Registry map[rune]func(n int) (*agent.Agent, error)

func emptyCell(r rune) bool {
	return r == '.' || r == '_' || r == '0'
}

// BuildFromArray constructs a simulation from a character grid. Each row is
// one string; characters found in the registry become agents fixed at that
// cell, reserved characters and unregistered characters are left empty.
// cfg.Rows, cfg.Cols, and cfg.Agents must be unset; everything else applies
// as in Build.
func BuildFromArray(rows []string, registry Registry, cfg Config) (*Simulation, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sim: character grid is empty")
	}
	if cfg.Rows != 0 || cfg.Cols != 0 || len(cfg.Agents) != 0 {
		return nil, fmt.Errorf("sim: BuildFromArray derives rows, cols, and agents from the grid")
	}
	for r := range registry {
		if emptyCell(r) {
			return nil, fmt.Errorf("sim: registry uses reserved character %q", r)
		}
	}

	cols := len([]rune(rows[0]))
	var agents []*agent.Agent
	for r, row := range rows {
		runes := []rune(row)
		if len(runes) != cols {
			return nil, fmt.Errorf("sim: row %d has %d cells, want %d", r, len(runes), cols)
		}
		for c, ch := range runes {
			if emptyCell(ch) {
				continue
			}
			build, ok := registry[ch]
			if !ok {
				continue
			}
			a, err := build(len(agents))
			if err != nil {
				return nil, fmt.Errorf("sim: build agent for %q at (%d, %d): %w", ch, r, c, err)
			}
			pos := grid.Position{Row: r, Col: c}
			a.InitialPosition = &pos
			agents = append(agents, a)
		}
	}

	cfg.Rows = len(rows)
	cfg.Cols = cols
	cfg.Agents = agents
	return Build(cfg)
}

// BuildFromGrid constructs a simulation from a prebuilt agent grid: one cell
// per entry, nil for empty cells. Each agent's initial position is fixed to
// its cell. cfg.Rows, cfg.Cols, and cfg.Agents must be unset.
func BuildFromGrid(cells [][]*agent.Agent, cfg Config) (*Simulation, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("sim: agent grid is empty")
	}
	if cfg.Rows != 0 || cfg.Cols != 0 || len(cfg.Agents) != 0 {
		return nil, fmt.Errorf("sim: BuildFromGrid derives rows, cols, and agents from the grid")
	}

	cols := len(cells[0])
	var agents []*agent.Agent
	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("sim: row %d has %d cells, want %d", r, len(row), cols)
		}
		for c, a := range row {
			if a == nil {
				continue
			}
			pos := grid.Position{Row: r, Col: c}
			a.InitialPosition = &pos
			agents = append(agents, a)
		}
	}

	cfg.Rows = len(cells)
	cfg.Cols = cols
	cfg.Agents = agents
	return Build(cfg)
}

// BuildFromFile reads a character grid from a file, one row per line with
// cells separated by whitespace, and delegates to BuildFromArray.
func BuildFromFile(path string, registry Registry, cfg Config) (*Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: read grid file: %w", err)
	}

	var rows []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		var row strings.Builder
		for _, f := range fields {
			if len([]rune(f)) != 1 {
				return nil, fmt.Errorf("sim: grid file cell %q is not a single character", f)
			}
			row.WriteString(f)
		}
		rows = append(rows, row.String())
	}
	return BuildFromArray(rows, registry, cfg)
}
