package dataset

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/japaniel/voiceset/pkg/voice"
)

const (
	statsBegin = "<!-- STATS -->"
	statsEnd   = "<!-- STATS_END -->"
)

var statsBlock = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(statsBegin) + `.*` + regexp.QuoteMeta(statsEnd))

// Coverage counts assets missing each kind of metadata.
type Coverage struct {
	Total           int
	NoSpeaker       int
	NoTranscription int
	NoFileName      int
}

// ComputeCoverage tallies the coverage counters over assets.
func ComputeCoverage(assets []*voice.Asset) Coverage {
	c := Coverage{Total: len(assets)}
	for _, a := range assets {
		if a.Speaker == "" {
			c.NoSpeaker++
		}
		if a.Transcription == "" {
			c.NoTranscription++
		}
		if a.InGameFileName == "" {
			c.NoFileName++
		}
	}
	return c
}

// RenderStats formats the delimited stats block for the report, dated at
// the UTC day of now.
func RenderStats(c Coverage, now time.Time) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	b.WriteString(statsBegin)
	b.WriteString("\n")
	p.Fprintf(&b, "Last update at `%s`\n\n", now.UTC().Format(time.DateOnly))
	p.Fprintf(&b, "`%d` wavs\n\n", c.Total)
	p.Fprintf(&b, "`%d` without speaker\n\n", c.NoSpeaker)
	p.Fprintf(&b, "`%d` without transcription\n\n", c.NoTranscription)
	p.Fprintf(&b, "`%d` without file_name\n", c.NoFileName)
	b.WriteString(statsEnd)
	return b.String()
}

// ReplaceStats swaps the stats block in report for block. ok is false, and
// report is returned unchanged, when the markers are absent.
func ReplaceStats(report, block string) (string, bool) {
	loc := statsBlock.FindStringIndex(report)
	if loc == nil {
		return report, false
	}
	return report[:loc[0]] + block + report[loc[1]:], true
}

// UpdateReport rewrites the stats block of the report file at path in place
// and returns the resulting content.
func UpdateReport(path, block string) (content string, updated bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("dataset: read report: %w", err)
	}
	content, updated = ReplaceStats(string(raw), block)
	if !updated {
		return content, false, nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("dataset: write report: %w", err)
	}
	return content, true, nil
}
