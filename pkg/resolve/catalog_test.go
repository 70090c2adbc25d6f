package resolve

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/japaniel/voiceset/pkg/hashkey"
	"github.com/japaniel/voiceset/pkg/voice"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiscoverKeysByBaseName(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a", "0123456789abcdef.wav"))
	touch(t, filepath.Join(dir, "b", "0123456789abcdef.wav"))
	touch(t, filepath.Join(dir, "fedcba9876543210.wav"))
	touch(t, filepath.Join(dir, "notes.txt"))

	c, err := Discover(dir, ".wav", quiet())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(c) != 2 {
		t.Fatalf("expected 2 unique assets, got %d", len(c))
	}
	a := c["0123456789abcdef"]
	if a == nil || filepath.Base(filepath.Dir(a.Path)) != "a" {
		t.Fatalf("expected first path kept, got %+v", a)
	}
	if a.FileName != "0123456789abcdef.wav" || a.Matched() {
		t.Fatalf("unexpected asset %+v", a)
	}
	keys := c.Keys()
	if keys[0] != "0123456789abcdef" || keys[1] != "fedcba9876543210" {
		t.Fatalf("keys not sorted: %v", keys)
	}
}

func TestDiscoverMissingDirectoryFails(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing"), ".wav", quiet()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLinkMatchesPerLanguage(t *testing.T) {
	src := `VO_AQ\vo_test.wem`
	jp := hashkey.AssetKey(string(voice.Japanese), src)
	en := hashkey.AssetKey(string(voice.English), src)
	c := Catalog{
		jp:      voice.NewAsset(jp, "", jp+".wav"),
		en:      voice.NewAsset(en, "", en+".wav"),
		"other": voice.NewAsset("other", "", "other.wav"),
	}
	records := []voice.SourceRecord{
		{GUID: "g1", GameTrigger: voice.TriggerDialog, GameTriggerArgs: 5,
			SourceNames: []voice.SourceName{{SourceFileName: src, AvatarName: "Ganyu"}}},
		{GUID: "g2", GameTrigger: voice.TriggerFetter, GameTriggerArgs: 6, SourceNames: []voice.SourceName{}},
	}

	if n := c.Link(records); n != 2 {
		t.Fatalf("matched %d; want 2", n)
	}
	if c[jp].Language != voice.Japanese || c[en].Language != voice.English {
		t.Fatalf("languages not assigned: %v / %v", c[jp].Language, c[en].Language)
	}
	if c[jp].InGameFileName != src || c[jp].OriginGUID != "g1" {
		t.Fatalf("provenance not set: %+v", c[jp])
	}
	b := c[jp].Bindings
	if len(b) != 1 || b[0].Kind != voice.TriggerDialog || b[0].Args != 5 || b[0].SpeakerHint != "Ganyu" {
		t.Fatalf("unexpected bindings %+v", b)
	}
	if c["other"].Matched() {
		t.Fatal("unrelated asset matched")
	}
}

func TestLinkAccumulatesBindingsAcrossRecords(t *testing.T) {
	src := `vo_shared.wem`
	key := hashkey.AssetKey(string(voice.Korean), src)
	c := Catalog{key: voice.NewAsset(key, "", key+".wav")}
	records := []voice.SourceRecord{
		{GUID: "a", GameTrigger: voice.TriggerDialog, GameTriggerArgs: 1, SourceNames: []voice.SourceName{{SourceFileName: src}}},
		{GUID: "b", GameTrigger: voice.TriggerCard, GameTriggerArgs: 2, SourceNames: []voice.SourceName{{SourceFileName: src}}},
	}
	c.Link(records)
	a := c[key]
	if len(a.Bindings) != 2 || a.LastTrigger() != voice.TriggerCard || a.OriginGUID != "b" {
		t.Fatalf("unexpected asset %+v", a)
	}
}
