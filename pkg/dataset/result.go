package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/japaniel/voiceset/pkg/voice"
)

// WriteResult writes every asset as one JSON object keyed by asset key.
// encoding/json sorts map keys, so the file is stable across runs.
func WriteResult(path string, assets []*voice.Asset) error {
	byKey := make(map[string]*voice.Asset, len(assets))
	for _, a := range assets {
		byKey[a.Key] = a
	}
	data, err := json.MarshalIndent(byKey, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset: encode result: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dataset: write result: %w", err)
	}
	return nil
}
