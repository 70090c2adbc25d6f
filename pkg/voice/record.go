package voice

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Shape identifies which historical schema a raw voice-source record uses.
type Shape int

const (
	// ShapeUnknown records carry neither guid key; they are decoded as-is.
	ShapeUnknown Shape = iota
	ShapeCurrent
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeCurrent:
		return "current"
	case ShapeLegacy:
		return "legacy"
	}
	return "unknown"
}

// legacyFields maps capitalized keys of the legacy shape to current keys.
var legacyFields = map[string]string{
	"Guid":        "guid",
	"GameTrigger": "gameTrigger",
	"ParentID":    "parentID",
	"SourceNames": "sourceNames",
}

// SourceName is one physical source file of a voice-source record.
type SourceName struct {
	SourceFileName string  `json:"sourceFileName"`
	Rate           float64 `json:"rate,omitempty"`
	AvatarName     string  `json:"avatarName,omitempty"`
	Emotion        string  `json:"emotion,omitempty"`
}

// SourceRecord is the canonical shape of a voice-source record.
type SourceRecord struct {
	GUID            string       `json:"guid"`
	PlayRate        float64      `json:"playRate,omitempty"`
	GameTrigger     TriggerKind  `json:"gameTrigger"`
	GameTriggerArgs Number       `json:"gameTriggerArgs"`
	PersonalConfig  Number       `json:"personalConfig,omitempty"`
	ParentID        string       `json:"parentID,omitempty"`
	SourceNames     []SourceName `json:"sourceNames"`
}

// Matchable reports whether the record names any audio file. Records without
// source names are valid but never link to an asset.
func (r SourceRecord) Matchable() bool {
	return len(r.SourceNames) > 0
}

// DetectShape inspects key presence only. A current "guid" key wins when a
// record carries both spellings.
func DetectShape(raw map[string]json.RawMessage) Shape {
	if _, ok := raw["guid"]; ok {
		return ShapeCurrent
	}
	if _, ok := raw["Guid"]; ok {
		return ShapeLegacy
	}
	return ShapeUnknown
}

// NormalizeRaw returns a copy of raw in the current key convention. Legacy
// keys are renamed without touching their values; current and unknown
// records come back unchanged. Normalizing twice is the same as once.
func NormalizeRaw(raw map[string]json.RawMessage) map[string]json.RawMessage {
	out := maps.Clone(raw)
	if out == nil {
		out = map[string]json.RawMessage{}
	}
	if DetectShape(raw) != ShapeLegacy {
		return out
	}
	for old, current := range legacyFields {
		v, ok := out[old]
		if !ok {
			continue
		}
		delete(out, old)
		if _, exists := out[current]; !exists {
			out[current] = v
		}
	}
	return out
}

// DecodeRecord decodes one raw record of any known shape into the canonical form.
func DecodeRecord(data json.RawMessage) (SourceRecord, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return SourceRecord{}, fmt.Errorf("voice: decode record: %w", err)
	}
	return decodeNormalized(NormalizeRaw(raw))
}

func decodeNormalized(raw map[string]json.RawMessage) (SourceRecord, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return SourceRecord{}, fmt.Errorf("voice: re-encode record: %w", err)
	}
	var rec SourceRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return SourceRecord{}, fmt.Errorf("voice: decode record: %w", err)
	}
	if rec.SourceNames == nil {
		rec.SourceNames = []SourceName{}
	}
	return rec, nil
}

// DecodeDocument decodes a voice-source document: a JSON object whose values
// are records. Records come back ordered by their document key so merges are
// reproducible. A record that fails to decode fails the whole document.
func DecodeDocument(data []byte) ([]SourceRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("voice: decode document: %w", err)
	}
	out := make([]SourceRecord, 0, len(doc))
	for _, key := range slices.Sorted(maps.Keys(doc)) {
		rec, err := DecodeRecord(doc[key])
		if err != nil {
			return nil, fmt.Errorf("voice: record %q: %w", key, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
