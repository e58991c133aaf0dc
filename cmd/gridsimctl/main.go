package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gridsim/internal/storage"
	gridapi "gridsim/pkg/gridsim"
)

const defaultDBPath = "gridsim.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "episodes":
		return runEpisodes(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "summary":
		return runSummary(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: gridsimctl <init|reset|run|episodes|show|summary> [flags]", msg)
}

func newClient(storeKind, dbPath string) (*gridapi.Client, error) {
	return gridapi.New(gridapi.Options{StoreKind: storeKind, DBPath: dbPath})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	scenarioPath := fs.String("scenario", "", "scenario YAML path")
	episodes := fs.Int("episodes", 0, "episode count (0 uses the scenario's value)")
	seed := fs.Int64("seed", 0, "rng seed (0 uses the scenario's value)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scenarioPath == "" {
		return usageError("run requires -scenario")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("running scenario", "scenario", *scenarioPath, "episodes", *episodes, "seed", *seed)

	summary, err := client.Run(ctx, gridapi.RunRequest{
		ScenarioPath: *scenarioPath,
		Episodes:     *episodes,
		Seed:         *seed,
	})
	if err != nil {
		return err
	}

	for _, episode := range summary.Episodes {
		logger.Info("episode finished", "id", episode.ID, "steps", episode.Steps, "outcome", episode.Outcome)
	}
	fmt.Printf("scenario=%s episodes=%d total_steps=%d\n", summary.Scenario, len(summary.Episodes), summary.TotalSteps)
	return nil
}

func runEpisodes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("episodes", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "maximum number of episodes to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	episodes, err := client.Episodes(ctx, *limit)
	if err != nil {
		return err
	}

	for _, episode := range episodes {
		fmt.Printf("%s scenario=%s seed=%d steps=%d outcome=%s survivors=%d\n",
			episode.ID, episode.Scenario, episode.Seed, episode.Steps, episode.Outcome, len(episode.Survivors))
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	id := fs.String("id", "", "episode id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("show requires -id")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	episode, ok, err := client.Episode(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("episode not found: %s", *id)
	}

	out, err := json.MarshalIndent(episode, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	name := fs.String("scenario", "", "scenario name")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return usageError("summary requires -scenario")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, ok, err := client.ScenarioSummary(ctx, *name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no summary for scenario: %s", *name)
	}

	fmt.Printf("scenario=%s episodes=%d total_steps=%d\n", summary.Name, summary.EpisodeCount, summary.TotalSteps)
	return nil
}
