package storage

import (
	"encoding/json"
	"errors"

	"gridsim/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeEpisode(e model.EpisodeRecord) ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEpisode(data []byte) (model.EpisodeRecord, error) {
	var episode model.EpisodeRecord
	if err := json.Unmarshal(data, &episode); err != nil {
		return model.EpisodeRecord{}, err
	}
	if err := checkVersion(episode.VersionedRecord); err != nil {
		return model.EpisodeRecord{}, err
	}
	return episode, nil
}

func EncodeScenarioSummary(s model.ScenarioSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeScenarioSummary(data []byte) (model.ScenarioSummary, error) {
	var summary model.ScenarioSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.ScenarioSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.ScenarioSummary{}, err
	}
	return summary, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
