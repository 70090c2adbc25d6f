package dataset

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"

	"github.com/japaniel/voiceset/pkg/voice"
)

// Entry is one manifest line.
type Entry struct {
	FileName       string `json:"file_name"`
	Transcription  string `json:"transcription"`
	Language       string `json:"language"`
	LanguageTag    string `json:"language_tag"`
	Speaker        string `json:"speaker"`
	SpeakerType    string `json:"speaker_type"`
	GameTrigger    string `json:"gameTrigger"`
	InGameFilename string `json:"inGameFilename"`
}

// NewEntry builds the manifest entry for a resolved asset.
func NewEntry(a *voice.Asset) Entry {
	e := Entry{
		FileName:       RelativePath(a.Key, a.FileName),
		Transcription:  a.Transcription,
		Language:       string(a.Language),
		Speaker:        a.Speaker,
		SpeakerType:    a.SpeakerRoleKind,
		GameTrigger:    string(a.LastTrigger()),
		InGameFilename: a.InGameFileName,
	}
	if a.Language.IsValid() {
		e.LanguageTag = a.Language.Tag().String()
	}
	return e
}

// canonicalLine serializes e as RFC 8785 canonical JSON.
func canonicalLine(e Entry) ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}

// BuildManifest renders one canonical JSON object per asset, lines sorted
// lexicographically, each terminated by '\n'. The output depends only on the
// assets' content, never on their order.
func BuildManifest(assets []*voice.Asset) ([]byte, error) {
	lines := make([][]byte, 0, len(assets))
	for _, a := range assets {
		line, err := canonicalLine(NewEntry(a))
		if err != nil {
			return nil, fmt.Errorf("dataset: manifest entry %q: %w", a.Key, err)
		}
		lines = append(lines, line)
	}
	slices.SortFunc(lines, bytes.Compare)

	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

//go:embed manifest.schema.json
var manifestSchemaJSON []byte

var manifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(manifestSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("dataset: compile manifest schema: %w", err)
	}
	return schema, nil
})

// ValidateManifest checks every non-empty line of a manifest against the
// embedded entry schema.
func ValidateManifest(data []byte) error {
	schema, err := manifestSchema()
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		result := schema.ValidateJSON(b)
		if !result.IsValid() {
			return fmt.Errorf("dataset: manifest line %d: schema validation failed: %v", line, result.Errors)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("dataset: read manifest: %w", err)
	}
	return nil
}
