package sim

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gridsim/internal/agent"
	"gridsim/internal/grid"
)

func wallRegistry() Registry {
	return Registry{
		'W': func(n int) (*agent.Agent, error) {
			return agent.New(agent.Config{ID: fmt.Sprintf("wall%d", n), Encoding: 1})
		},
		'A': func(n int) (*agent.Agent, error) {
			return agent.New(agent.Config{
				ID:           fmt.Sprintf("agent%d", n),
				Encoding:     2,
				MoveRange:    1,
				Capabilities: []agent.Capability{agent.CapMove},
			})
		},
	}
}

func TestBuildFromArray(t *testing.T) {
	rows := []string{
		"W.A",
		"...",
		"A_W",
	}
	s, err := BuildFromArray(rows, wallRegistry(), Config{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("build from array: %v", err)
	}
	if s.Grid().Rows() != 3 || s.Grid().Cols() != 3 {
		t.Fatalf("grid is %dx%d, want 3x3", s.Grid().Rows(), s.Grid().Cols())
	}
	if s.Agents().Len() != 4 {
		t.Fatalf("expected 4 agents, got %d", s.Agents().Len())
	}

	// Agents are numbered in reading order.
	want := map[string]grid.Position{
		"wall0":  {Row: 0, Col: 0},
		"agent1": {Row: 0, Col: 2},
		"agent2": {Row: 2, Col: 0},
		"wall3":  {Row: 2, Col: 2},
	}
	for id, pos := range want {
		a, ok := s.Agents().Get(id)
		if !ok {
			t.Fatalf("missing agent %s", id)
		}
		if a.InitialPosition == nil || *a.InitialPosition != pos {
			t.Fatalf("agent %s has initial position %v, want %v", id, a.InitialPosition, pos)
		}
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	for id, pos := range want {
		a, _ := s.Agents().Get(id)
		if a.Position != pos {
			t.Fatalf("agent %s placed at %v, want %v", id, a.Position, pos)
		}
	}
}

func TestBuildFromArraySkipsUnregisteredCharacters(t *testing.T) {
	rows := []string{
		"X.A",
	}
	s, err := BuildFromArray(rows, wallRegistry(), Config{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("build from array: %v", err)
	}
	if s.Agents().Len() != 1 {
		t.Fatalf("expected unregistered character ignored, got %d agents", s.Agents().Len())
	}
}

func TestBuildFromArrayRejectsReservedRegistryCharacters(t *testing.T) {
	for _, reserved := range []rune{'.', '_', '0'} {
		registry := Registry{
			reserved: func(n int) (*agent.Agent, error) {
				return agent.New(agent.Config{ID: "x", Encoding: 1})
			},
		}
		if _, err := BuildFromArray([]string{"..."}, registry, Config{Rand: rand.New(rand.NewSource(1))}); err == nil {
			t.Fatalf("expected reserved character %q to be rejected", reserved)
		}
	}
}

func TestBuildFromArrayRejectsRaggedRows(t *testing.T) {
	rows := []string{
		"...",
		"..",
	}
	if _, err := BuildFromArray(rows, wallRegistry(), Config{Rand: rand.New(rand.NewSource(1))}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestBuildFromArrayRejectsPresetDimensions(t *testing.T) {
	cfg := Config{Rows: 3, Cols: 3, Rand: rand.New(rand.NewSource(1))}
	if _, err := BuildFromArray([]string{"..."}, wallRegistry(), cfg); err == nil {
		t.Fatal("expected error when rows/cols are preset")
	}
}

func TestBuildFromGrid(t *testing.T) {
	wall, err := agent.New(agent.Config{ID: "wall", Encoding: 1})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	mover, err := agent.New(agent.Config{ID: "mover", Encoding: 2, MoveRange: 1, Capabilities: []agent.Capability{agent.CapMove}})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}

	cells := [][]*agent.Agent{
		{wall, nil},
		{nil, mover},
	}
	s, err := BuildFromGrid(cells, Config{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("build from grid: %v", err)
	}
	if s.Grid().Rows() != 2 || s.Grid().Cols() != 2 {
		t.Fatalf("grid is %dx%d, want 2x2", s.Grid().Rows(), s.Grid().Cols())
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if wall.Position != (grid.Position{Row: 0, Col: 0}) {
		t.Fatalf("wall at %v, want (0, 0)", wall.Position)
	}
	if mover.Position != (grid.Position{Row: 1, Col: 1}) {
		t.Fatalf("mover at %v, want (1, 1)", mover.Position)
	}
}

func TestBuildFromGridRejectsRaggedRows(t *testing.T) {
	a, err := agent.New(agent.Config{ID: "a", Encoding: 1})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	cells := [][]*agent.Agent{
		{a, nil},
		{nil},
	}
	if _, err := BuildFromGrid(cells, Config{Rand: rand.New(rand.NewSource(1))}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestBuildFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.txt")
	content := "W . A\n. . .\nA _ W\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write grid file: %v", err)
	}

	s, err := BuildFromFile(path, wallRegistry(), Config{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("build from file: %v", err)
	}
	if s.Grid().Rows() != 3 || s.Grid().Cols() != 3 {
		t.Fatalf("grid is %dx%d, want 3x3", s.Grid().Rows(), s.Grid().Cols())
	}
	if s.Agents().Len() != 4 {
		t.Fatalf("expected 4 agents, got %d", s.Agents().Len())
	}
}

func TestBuildFromFileRejectsMultiCharacterCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.txt")
	if err := os.WriteFile(path, []byte("WW .\n. .\n"), 0o644); err != nil {
		t.Fatalf("write grid file: %v", err)
	}
	if _, err := BuildFromFile(path, wallRegistry(), Config{Rand: rand.New(rand.NewSource(1))}); err == nil {
		t.Fatal("expected error for multi-character cell")
	}
}
