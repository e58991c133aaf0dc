// Package gridsim is the public client surface for running grid
// simulation scenarios and inspecting persisted episode results.
package gridsim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"gridsim/internal/model"
	"gridsim/internal/scenario"
	"gridsim/internal/sim"
	"gridsim/internal/storage"
)

const defaultDBPath = "gridsim.db"

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store

	mu    sync.Mutex
	ready bool
}

type RunRequest struct {
	ScenarioPath string
	Episodes     int
	Seed         int64
}

type EpisodeItem struct {
	ID      string
	Steps   int
	Outcome string
}

type RunSummary struct {
	Scenario   string
	Episodes   []EpisodeItem
	TotalSteps int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureInit(ctx)
}

func (c *Client) ensureInit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.ready = true
	return nil
}

// Run loads a scenario, plays the requested number of episodes with
// random policies and records each episode outcome in the store.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.ScenarioPath == "" {
		return RunSummary{}, errors.New("scenario path is required")
	}
	scn, err := scenario.Load(req.ScenarioPath)
	if err != nil {
		return RunSummary{}, err
	}
	episodes := req.Episodes
	if episodes <= 0 {
		episodes = scn.Episodes
	}
	seed := req.Seed
	if seed == 0 {
		seed = scn.Seed
	}

	if err := c.ensureInit(ctx); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{Scenario: scn.Name}
	for i := 0; i < episodes; i++ {
		episodeSeed := seed + int64(i)
		episode, err := c.runEpisode(ctx, scn, episodeSeed)
		if err != nil {
			return RunSummary{}, fmt.Errorf("episode %d: %w", i, err)
		}
		if err := c.store.SaveEpisode(ctx, episode); err != nil {
			return RunSummary{}, err
		}
		summary.Episodes = append(summary.Episodes, EpisodeItem{
			ID:      episode.ID,
			Steps:   episode.Steps,
			Outcome: episode.Outcome,
		})
		summary.TotalSteps += episode.Steps
	}

	if err := c.updateScenarioSummary(ctx, scn.Name, summary); err != nil {
		return RunSummary{}, err
	}
	return summary, nil
}

func (c *Client) runEpisode(_ context.Context, scn scenario.Scenario, seed int64) (model.EpisodeRecord, error) {
	rnd := rand.New(rand.NewSource(seed))
	simulation, err := scn.Build(rnd)
	if err != nil {
		return model.EpisodeRecord{}, err
	}
	if err := simulation.Reset(); err != nil {
		return model.EpisodeRecord{}, err
	}

	placements := capturePlacements(simulation)

	outcome := model.OutcomeStepLimited
	for {
		if simulation.Done() {
			outcome = model.OutcomeDone
			break
		}
		if simulation.Steps() >= scn.MaxSteps {
			break
		}
		if err := simulation.Step(simulation.RandomActions()); err != nil {
			return model.EpisodeRecord{}, err
		}
	}

	var survivors []string
	for _, a := range simulation.Agents().Agents() {
		if a.Active {
			survivors = append(survivors, a.ID)
		}
	}

	return model.EpisodeRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:         uuid.NewString(),
		Scenario:   scn.Name,
		Seed:       seed,
		Steps:      simulation.Steps(),
		Outcome:    outcome,
		Placements: placements,
		Survivors:  survivors,
	}, nil
}

func (c *Client) updateScenarioSummary(ctx context.Context, name string, run RunSummary) error {
	current, ok, err := c.store.GetScenarioSummary(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		current = model.ScenarioSummary{
			VersionedRecord: model.VersionedRecord{
				SchemaVersion: storage.CurrentSchemaVersion,
				CodecVersion:  storage.CurrentCodecVersion,
			},
			Name: name,
		}
	}
	current.EpisodeCount += len(run.Episodes)
	current.TotalSteps += run.TotalSteps
	return c.store.SaveScenarioSummary(ctx, current)
}

func (c *Client) Episodes(ctx context.Context, limit int) ([]model.EpisodeRecord, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}
	return c.store.ListEpisodes(ctx, limit)
}

func (c *Client) Episode(ctx context.Context, id string) (model.EpisodeRecord, bool, error) {
	if err := c.ensureInit(ctx); err != nil {
		return model.EpisodeRecord{}, false, err
	}
	return c.store.GetEpisode(ctx, id)
}

func (c *Client) ScenarioSummary(ctx context.Context, name string) (model.ScenarioSummary, bool, error) {
	if err := c.ensureInit(ctx); err != nil {
		return model.ScenarioSummary{}, false, err
	}
	return c.store.GetScenarioSummary(ctx, name)
}

func (c *Client) Reset(ctx context.Context) error {
	if err := c.ensureInit(ctx); err != nil {
		return err
	}
	resetter, ok := c.store.(storage.Resetter)
	if !ok {
		return errors.New("store does not support reset")
	}
	return resetter.Reset(ctx)
}

func capturePlacements(simulation *sim.Simulation) []model.PlacementRecord {
	agents := simulation.Agents().Agents()
	placements := make([]model.PlacementRecord, 0, len(agents))
	for _, a := range agents {
		if !a.Active {
			continue
		}
		placements = append(placements, model.PlacementRecord{
			AgentID:  a.ID,
			Encoding: a.Encoding,
			Row:      a.Position.Row,
			Col:      a.Position.Col,
			Health:   a.Health,
		})
	}
	return placements
}
