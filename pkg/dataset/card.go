package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/voiceset/pkg/voice"
)

// CardFile is the dataset card written at the dataset root.
const CardFile = "README.md"

// CardMeta is the YAML front matter of the dataset card.
type CardMeta struct {
	TaskCategories []string `yaml:"task_categories"`
	Language       []string `yaml:"language"`
	PrettyName     string   `yaml:"pretty_name"`
}

// DefaultCardMeta describes the dataset produced by this tool.
func DefaultCardMeta() CardMeta {
	langs := make([]string, 0, len(voice.Languages()))
	for _, l := range voice.Languages() {
		langs = append(langs, l.BaseCode())
	}
	return CardMeta{
		TaskCategories: []string{"audio-classification", "automatic-speech-recognition", "text-to-speech"},
		Language:       langs,
		PrettyName:     "Genshin Voice",
	}
}

// RenderCard returns the front matter followed by body.
func RenderCard(meta CardMeta, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("dataset: encode card front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("dataset: encode card front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// WriteCard writes the dataset card into dir.
func WriteCard(dir string, meta CardMeta, body string) error {
	data, err := RenderCard(meta, body)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, CardFile), data, 0o644); err != nil {
		return fmt.Errorf("dataset: write card: %w", err)
	}
	return nil
}
