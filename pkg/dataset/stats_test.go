package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestComputeCoverage(t *testing.T) {
	got := ComputeCoverage(sampleAssets())
	want := Coverage{Total: 3, NoSpeaker: 1, NoTranscription: 2, NoFileName: 2}
	if got != want {
		t.Errorf("ComputeCoverage = %+v, want %+v", got, want)
	}
	if empty := ComputeCoverage(nil); empty != (Coverage{}) {
		t.Errorf("empty coverage = %+v", empty)
	}
}

func TestRenderStats(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	block := RenderStats(Coverage{Total: 123456, NoSpeaker: 12, NoTranscription: 3, NoFileName: 0}, now)

	for _, want := range []string{
		statsBegin,
		"Last update at `2024-03-10`",
		"`123,456` wavs",
		"`12` without speaker",
		"`3` without transcription",
		"`0` without file_name",
		statsEnd,
	} {
		if !strings.Contains(block, want) {
			t.Errorf("stats block missing %q:\n%s", want, block)
		}
	}
}

func TestReplaceStats(t *testing.T) {
	report := "# Title\n\n<!-- STATS -->\nold\n<!-- STATS_END -->\n\nfooter\n"
	got, ok := ReplaceStats(report, statsBegin+"\nnew\n"+statsEnd)
	if !ok {
		t.Fatal("markers not found")
	}
	want := "# Title\n\n<!-- STATS -->\nnew\n<!-- STATS_END -->\n\nfooter\n"
	if got != want {
		t.Errorf("ReplaceStats = %q, want %q", got, want)
	}

	plain := "# no markers here\n"
	got, ok = ReplaceStats(plain, "block")
	if ok || got != plain {
		t.Errorf("report without markers changed: %q, %v", got, ok)
	}
}

func TestUpdateReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	if err := os.WriteFile(path, []byte("intro\n<!-- STATS -->\n<!-- STATS_END -->\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	content, updated, err := UpdateReport(path, statsBegin+"\nx\n"+statsEnd)
	if err != nil || !updated {
		t.Fatalf("UpdateReport: updated=%v err=%v", updated, err)
	}
	onDisk, _ := os.ReadFile(path)
	if string(onDisk) != content || !strings.Contains(content, "\nx\n") {
		t.Errorf("report not rewritten: %q", onDisk)
	}

	noMarkers := filepath.Join(dir, "plain.md")
	if err := os.WriteFile(noMarkers, []byte("plain\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, updated, err = UpdateReport(noMarkers, "x")
	if err != nil || updated {
		t.Errorf("UpdateReport without markers: updated=%v err=%v", updated, err)
	}

	if _, _, err := UpdateReport(filepath.Join(dir, "missing.md"), "x"); err == nil {
		t.Error("expected error for missing report")
	}
}

func TestWriteCard(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCard(dir, DefaultCardMeta(), "# Body\n"); err != nil {
		t.Fatalf("WriteCard: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, CardFile))
	if err != nil {
		t.Fatal(err)
	}
	want := "---\n" +
		"task_categories:\n" +
		"  - audio-classification\n" +
		"  - automatic-speech-recognition\n" +
		"  - text-to-speech\n" +
		"language:\n" +
		"  - zh\n" +
		"  - en\n" +
		"  - ja\n" +
		"  - ko\n" +
		"pretty_name: Genshin Voice\n" +
		"---\n\n" +
		"# Body\n"
	if string(data) != want {
		t.Errorf("card =\n%s\nwant\n%s", data, want)
	}
}

func TestWriteResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := WriteResult(path, sampleAssets()); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	data, _ := os.ReadFile(path)
	s := string(data)
	i0 := strings.Index(s, `"0000cccc3333dddd"`)
	i1 := strings.Index(s, `"1111aaaa2222bbbb"`)
	i2 := strings.Index(s, `"ffff0000eeee1111"`)
	if i0 < 0 || !(i0 < i1 && i1 < i2) {
		t.Errorf("result keys missing or unsorted:\n%s", s)
	}
	if strings.Contains(s, "/src/") {
		t.Error("result should not expose source paths")
	}
}
