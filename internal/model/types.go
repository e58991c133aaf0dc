package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// PlacementRecord is one agent's state right after an episode reset.
type PlacementRecord struct {
	AgentID  string  `json:"agent_id"`
	Encoding int     `json:"encoding"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Health   float64 `json:"health"`
}

// EpisodeRecord summarizes one simulated episode.
type EpisodeRecord struct {
	VersionedRecord
	ID         string            `json:"id"`
	Scenario   string            `json:"scenario"`
	Seed       int64             `json:"seed"`
	Steps      int               `json:"steps"`
	Outcome    string            `json:"outcome"`
	Placements []PlacementRecord `json:"placements"`
	Survivors  []string          `json:"survivors"`
}

// Episode outcomes.
const (
	OutcomeDone        = "done"
	OutcomeStepLimited = "step_limited"
)

// ScenarioSummary tracks aggregate results per scenario name.
type ScenarioSummary struct {
	VersionedRecord
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
	TotalSteps   int    `json:"total_steps"`
}
