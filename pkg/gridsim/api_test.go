package gridsim

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gridsim/internal/model"
	"gridsim/internal/scenario"
	"gridsim/internal/sim"
)

const battleScenario = `
name: battle
rows: 5
cols: 5
seed: 7
episodes: 2
max_steps: 10
attack:
  1: [2]
  2: [1]
agents:
  - id: red
    encoding: 1
    health: 1.0
    move_range: 1
    attack_range: 2
    attack_strength: 0.6
    capabilities: [move, attack]
  - id: blue
    encoding: 2
    health: 1.0
    move_range: 1
    attack_range: 2
    attack_strength: 0.6
    capabilities: [move, attack]
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battle.yaml")
	if err := os.WriteFile(path, []byte(battleScenario), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func TestClientRunRecordsEpisodes(t *testing.T) {
	ctx := context.Background()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	path := writeScenario(t)
	summary, err := client.Run(ctx, RunRequest{ScenarioPath: path})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Scenario != "battle" {
		t.Fatalf("unexpected scenario name %q", summary.Scenario)
	}
	if len(summary.Episodes) != 2 {
		t.Fatalf("expected 2 episodes from the scenario default, got %d", len(summary.Episodes))
	}
	for _, episode := range summary.Episodes {
		if episode.ID == "" {
			t.Fatal("expected episode id")
		}
		if episode.Outcome != model.OutcomeDone && episode.Outcome != model.OutcomeStepLimited {
			t.Fatalf("unexpected outcome %q", episode.Outcome)
		}
		if episode.Steps < 0 || episode.Steps > 10 {
			t.Fatalf("steps %d outside [0, max_steps]", episode.Steps)
		}
	}

	episodes, err := client.Episodes(ctx, 0)
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("expected 2 persisted episodes, got %d", len(episodes))
	}
	if len(episodes[0].Placements) != 2 {
		t.Fatalf("expected initial placements for both agents, got %+v", episodes[0].Placements)
	}

	got, ok, err := client.Episode(ctx, summary.Episodes[0].ID)
	if err != nil || !ok {
		t.Fatalf("episode lookup: ok=%v err=%v", ok, err)
	}
	if got.Scenario != "battle" {
		t.Fatalf("unexpected scenario on persisted episode: %q", got.Scenario)
	}

	scenarioSummary, ok, err := client.ScenarioSummary(ctx, "battle")
	if err != nil || !ok {
		t.Fatalf("scenario summary: ok=%v err=%v", ok, err)
	}
	if scenarioSummary.EpisodeCount != 2 || scenarioSummary.TotalSteps != summary.TotalSteps {
		t.Fatalf("summary mismatch: %+v vs run total %d", scenarioSummary, summary.TotalSteps)
	}
}

func TestClientRunAccumulatesScenarioSummary(t *testing.T) {
	ctx := context.Background()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	path := writeScenario(t)
	if _, err := client.Run(ctx, RunRequest{ScenarioPath: path, Episodes: 1}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := client.Run(ctx, RunRequest{ScenarioPath: path, Episodes: 1}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	summary, ok, err := client.ScenarioSummary(ctx, "battle")
	if err != nil || !ok {
		t.Fatalf("scenario summary: ok=%v err=%v", ok, err)
	}
	if summary.EpisodeCount != 2 {
		t.Fatalf("expected 2 accumulated episodes, got %d", summary.EpisodeCount)
	}
}

func TestClientRunDeterministicForSeed(t *testing.T) {
	ctx := context.Background()
	path := writeScenario(t)

	run := func() RunSummary {
		client, err := New(Options{StoreKind: "memory"})
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		defer func() {
			_ = client.Close()
		}()
		summary, err := client.Run(ctx, RunRequest{ScenarioPath: path, Episodes: 2, Seed: 99})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return summary
	}

	first := run()
	second := run()
	if first.TotalSteps != second.TotalSteps {
		t.Fatalf("identical seeds produced different step totals: %d vs %d", first.TotalSteps, second.TotalSteps)
	}
	for i := range first.Episodes {
		if first.Episodes[i].Steps != second.Episodes[i].Steps || first.Episodes[i].Outcome != second.Episodes[i].Outcome {
			t.Fatalf("episode %d diverged between identical runs", i)
		}
	}
}

func TestClientRunRequiresScenario(t *testing.T) {
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	if _, err := client.Run(context.Background(), RunRequest{}); err == nil {
		t.Fatal("expected error without a scenario path")
	}
	if _, err := client.Run(context.Background(), RunRequest{ScenarioPath: "nonexistent.yaml"}); err == nil {
		t.Fatal("expected error for missing scenario file")
	}
}

func TestClientReset(t *testing.T) {
	ctx := context.Background()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	path := writeScenario(t)
	if _, err := client.Run(ctx, RunRequest{ScenarioPath: path, Episodes: 1}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := client.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	episodes, err := client.Episodes(ctx, 0)
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(episodes) != 0 {
		t.Fatalf("expected no episodes after reset, got %d", len(episodes))
	}
}

func TestRunEpisodeDoneAtStepLimit(t *testing.T) {
	scn := scenario.Scenario{
		Name:     "settled",
		Rows:     3,
		Cols:     3,
		MaxSteps: 0,
		Done:     sim.DoneOneTeamRemaining,
		Agents: []scenario.AgentSpec{
			{ID: "a", Encoding: 1, Team: 1, Capabilities: []string{"team"}},
			{ID: "b", Encoding: 1, Team: 1, Capabilities: []string{"team"}},
		},
	}

	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	episode, err := client.runEpisode(context.Background(), scn, 3)
	if err != nil {
		t.Fatalf("run episode: %v", err)
	}
	if episode.Outcome != model.OutcomeDone {
		t.Fatalf("episode done at the step limit should finish done, got %q", episode.Outcome)
	}
	if episode.Steps != 0 {
		t.Fatalf("expected no steps taken, got %d", episode.Steps)
	}
}
