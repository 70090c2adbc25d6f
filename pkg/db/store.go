package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested asset does not exist.
var ErrNotFound = errors.New("db: not found")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// UpsertAsset inserts a or updates the stored row. Text columns are only
// replaced by non-empty values, so a re-export never erases metadata.
func UpsertAsset(db DBExecutor, a Asset) error {
	key := strings.TrimSpace(a.Key)
	if key == "" {
		return fmt.Errorf("asset key must be non-empty")
	}
	_, err := db.Exec(`INSERT INTO assets (asset_key, file_name, in_game_file_name, language, transcription, reading, speaker, speaker_type, origin_guid, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(asset_key) DO UPDATE SET
		  file_name = excluded.file_name,
		  in_game_file_name = COALESCE(NULLIF(excluded.in_game_file_name, ''), assets.in_game_file_name),
		  language = COALESCE(NULLIF(excluded.language, ''), assets.language),
		  transcription = COALESCE(NULLIF(excluded.transcription, ''), assets.transcription),
		  reading = COALESCE(NULLIF(excluded.reading, ''), assets.reading),
		  speaker = COALESCE(NULLIF(excluded.speaker, ''), assets.speaker),
		  speaker_type = COALESCE(NULLIF(excluded.speaker_type, ''), assets.speaker_type),
		  origin_guid = COALESCE(NULLIF(excluded.origin_guid, ''), assets.origin_guid),
		  updated_at = excluded.updated_at`,
		key, a.FileName, a.InGameFileName, a.Language, a.Transcription, a.Reading,
		a.Speaker, a.SpeakerType, a.OriginGUID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert asset %s: %w", key, err)
	}
	return nil
}

// ReplaceBindings replaces the stored trigger bindings of an asset.
func ReplaceBindings(db DBExecutor, key string, bindings []Binding) error {
	if _, err := db.Exec(`DELETE FROM trigger_bindings WHERE asset_key = ?`, key); err != nil {
		return fmt.Errorf("clear bindings %s: %w", key, err)
	}
	for i, b := range bindings {
		_, err := db.Exec(`INSERT INTO trigger_bindings (asset_key, position, kind, args, speaker_hint) VALUES (?, ?, ?, ?, ?)`,
			key, i, b.Kind, b.Args, b.SpeakerHint)
		if err != nil {
			return fmt.Errorf("insert binding %s/%d: %w", key, i, err)
		}
	}
	return nil
}

// GetAsset returns the stored asset with key, or ErrNotFound.
func GetAsset(db DBExecutor, key string) (Asset, error) {
	var a Asset
	err := db.QueryRow(`SELECT asset_key, file_name, in_game_file_name, language, transcription, reading, speaker, speaker_type, origin_guid, updated_at
		FROM assets WHERE asset_key = ?`, key).Scan(
		&a.Key, &a.FileName, &a.InGameFileName, &a.Language, &a.Transcription, &a.Reading,
		&a.Speaker, &a.SpeakerType, &a.OriginGUID, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, ErrNotFound
	}
	if err != nil {
		return Asset{}, err
	}
	return a, nil
}

// GetBindings returns the bindings of an asset in position order.
func GetBindings(db DBExecutor, key string) ([]Binding, error) {
	rows, err := db.Query(`SELECT position, kind, args, speaker_hint FROM trigger_bindings WHERE asset_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Binding
	for rows.Next() {
		var b Binding
		if err := rows.Scan(&b.Position, &b.Kind, &b.Args, &b.SpeakerHint); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAssetsBySpeaker returns the keys of assets voiced by speaker.
func GetAssetsBySpeaker(db DBExecutor, speaker string) ([]string, error) {
	rows, err := db.Query(`SELECT asset_key FROM assets WHERE speaker = ? ORDER BY asset_key`, speaker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

// CountCoverage computes coverage counters over the stored assets.
func CountCoverage(db DBExecutor) (Coverage, error) {
	var c Coverage
	err := db.QueryRow(`SELECT
		  COUNT(*),
		  COALESCE(SUM(speaker = ''), 0),
		  COALESCE(SUM(transcription = ''), 0),
		  COALESCE(SUM(in_game_file_name = ''), 0)
		FROM assets`).Scan(&c.Total, &c.NoSpeaker, &c.NoTranscription, &c.NoFileName)
	if err != nil {
		return Coverage{}, fmt.Errorf("count coverage: %w", err)
	}
	return c, nil
}

// RecordRun stores the coverage of a finished export and returns its id.
func RecordRun(db DBExecutor, c Coverage) (int64, error) {
	res, err := db.Exec(`INSERT INTO export_runs (total, no_speaker, no_transcription, no_file_name) VALUES (?, ?, ?, ?)`,
		c.Total, c.NoSpeaker, c.NoTranscription, c.NoFileName)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}
