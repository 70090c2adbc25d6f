// Package config defines the run configuration: directory layout, worker
// counts, and logging. Every field has a default so a run needs no file.
package config

import (
	"log/slog"
	"strings"
)

// LogLevel is the minimum level written by the default logger.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a known level.
func (l LogLevel) IsValid() bool {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SlogLevel maps l to its slog level; unknown values map to Info.
func (l LogLevel) SlogLevel() slog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config is the complete run configuration.
type Config struct {
	// GameDataDir is the root of the unpacked game-data export.
	GameDataDir string `yaml:"game_data_dir" env:"VOICESET_GAME_DATA_DIR"`
	// WavDir holds the extracted audio files, named "<assetKey><AudioExt>".
	WavDir   string `yaml:"wav_dir"   env:"VOICESET_WAV_DIR"`
	AudioExt string `yaml:"audio_ext" env:"VOICESET_AUDIO_EXT"`

	// DatasetDir is owned by the run: its wavs tree is rebuilt every time.
	DatasetDir string `yaml:"dataset_dir" env:"VOICESET_DATASET_DIR"`
	ResultPath string `yaml:"result_path" env:"VOICESET_RESULT_PATH"`
	ReadmePath string `yaml:"readme_path" env:"VOICESET_README_PATH"`
	// ExportDB is a sqlite file path; empty disables the export.
	ExportDB string `yaml:"export_db" env:"VOICESET_EXPORT_DB"`

	BatchSize     int `yaml:"batch_size"     env:"VOICESET_BATCH_SIZE"`
	CopyWorkers   int `yaml:"copy_workers"   env:"VOICESET_COPY_WORKERS"`
	IngestWorkers int `yaml:"ingest_workers" env:"VOICESET_INGEST_WORKERS"`

	LogLevel LogLevel `yaml:"log_level" env:"VOICESET_LOG_LEVEL"`
}

// Default returns the configuration of a run with no file and no environment.
func Default() *Config {
	return &Config{
		GameDataDir:   "GenshinData",
		WavDir:        "result/wav",
		AudioExt:      ".wav",
		DatasetDir:    "genshin-voice-wav",
		ResultPath:    "result.json",
		ReadmePath:    "readme.md",
		BatchSize:     64,
		CopyWorkers:   64,
		IngestWorkers: 4,
		LogLevel:      LogInfo,
	}
}
