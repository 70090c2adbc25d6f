package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration: defaults, then the YAML file at path when
// path is non-empty, then VOICESET_* environment variables. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := decodeYAML(f, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result. The environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decodeYAML(r, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields of cfg whose environment variable is set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Validate checks that cfg is usable. It returns a joined error listing
// every problem found.
func Validate(cfg *Config) error {
	var errs []error

	required := []struct{ name, value string }{
		{"game_data_dir", cfg.GameDataDir},
		{"wav_dir", cfg.WavDir},
		{"dataset_dir", cfg.DatasetDir},
		{"result_path", cfg.ResultPath},
		{"readme_path", cfg.ReadmePath},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
		}
	}
	if !strings.HasPrefix(cfg.AudioExt, ".") || len(cfg.AudioExt) < 2 {
		errs = append(errs, fmt.Errorf("audio_ext %q must start with '.'", cfg.AudioExt))
	}
	if cfg.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", cfg.BatchSize))
	}
	if cfg.CopyWorkers < 1 {
		errs = append(errs, fmt.Errorf("copy_workers must be positive, got %d", cfg.CopyWorkers))
	}
	if cfg.IngestWorkers < 1 {
		errs = append(errs, fmt.Errorf("ingest_workers must be positive, got %d", cfg.IngestWorkers))
	}
	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	return errors.Join(errs...)
}
