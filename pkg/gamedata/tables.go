// Package gamedata discovers and parses the game-data JSON corpus.
//
// Documents are parsed in fixed-size concurrent batches. A document that
// cannot be read or parsed is reported and skipped; only a missing corpus
// directory fails a load.
package gamedata

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/japaniel/voiceset/pkg/observe"
	"github.com/japaniel/voiceset/pkg/voice"
)

// Table names used in reports, logs and metrics.
const (
	TableVoice     = "voice"
	TableTalk      = "talk"
	TableTextMap   = "textmap"
	TableNPC       = "npc"
	TableAvatar    = "avatar"
	TableAvatarCfg = "avatar_config"
	TableFetter    = "fetter"
	TableCardChar  = "card_character"
	TableCardTalk  = "card_talk"
	TableTutorial  = "card_tutorial"
	TableReminder  = "reminder"
)

// Corpus paths relative to the game-data root.
const (
	VoiceDir       = "BinOutput/Voice"
	TalkDir        = "BinOutput/Talk"
	AvatarDir      = "BinOutput/Avatar"
	TextMapDir     = "TextMap"
	ExcelDir       = "ExcelBinOutput"
	NPCFile        = "NpcExcelConfigData.json"
	AvatarFile     = "AvatarExcelConfigData.json"
	FetterFile     = "FettersExcelConfigData.json"
	CardCharFile   = "GCGCharExcelConfigData.json"
	CardTalkFile   = "GCGTalkDetailExcelConfigData.json"
	TutorialFile   = "GCGTutorialTextExcelConfigData.json"
	ReminderFile   = "ReminderExcelConfigData.json"
	documentSuffix = ".json"
)

// Tables is everything loaded from the corpus. Slices keep merge order;
// the index decides how duplicates resolve.
type Tables struct {
	Records        []voice.SourceRecord
	Dialogues      []DialogueNode
	TextMaps       map[voice.Language]TextMap
	NPCs           []NPC
	Avatars        []Avatar // formal avatars only
	Fetters        []FetterLine
	CardCharacters []CardCharacter
	CardTalks      []CardTalk
	Tutorials      []TutorialComment
	Reminders      []Reminder
}

// LoadReport summarizes a load.
type LoadReport struct {
	Loaded map[string]int
	Failed []*DocumentError
}

// Loader reads a game-data corpus rooted at Root.
type Loader struct {
	Root      string
	BatchSize int
	// Logger receives one Warn per skipped document. nil means slog.Default().
	Logger  *slog.Logger
	Metrics *observe.Metrics
}

// NewLoader returns a Loader with the default batch size.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, BatchSize: DefaultBatchSize}
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *Loader) metrics() *observe.Metrics {
	if l.Metrics != nil {
		return l.Metrics
	}
	return observe.DefaultMetrics()
}

func (l *Loader) excel(name string) string {
	return filepath.Join(l.Root, ExcelDir, name)
}

// Load parses the whole corpus.
func (l *Loader) Load(ctx context.Context) (*Tables, *LoadReport, error) {
	start := time.Now()
	if _, err := os.Stat(l.Root); err != nil {
		return nil, nil, fmt.Errorf("gamedata: game data root: %w", err)
	}
	t := &Tables{TextMaps: make(map[voice.Language]TextMap, len(voice.Languages()))}
	rep := &LoadReport{Loaded: map[string]int{}}

	voicePaths, err := FindFiles(filepath.Join(l.Root, VoiceDir), documentSuffix)
	if err != nil {
		return nil, nil, err
	}
	if err := loadTable(ctx, l, rep, TableVoice, voicePaths, decodeVoice, func(_ string, recs []voice.SourceRecord) {
		t.Records = append(t.Records, recs...)
	}); err != nil {
		return nil, nil, err
	}

	talkPaths, err := FindFiles(filepath.Join(l.Root, TalkDir), documentSuffix)
	if err != nil {
		return nil, nil, err
	}
	if err := loadTable(ctx, l, rep, TableTalk, talkPaths, decodeTalk, func(_ string, nodes []DialogueNode) {
		t.Dialogues = append(t.Dialogues, nodes...)
	}); err != nil {
		return nil, nil, err
	}

	langByPath := make(map[string]voice.Language)
	var textMapPaths []string
	for _, lang := range voice.Languages() {
		p := filepath.Join(l.Root, TextMapDir, lang.TextMapFile())
		langByPath[p] = lang
		textMapPaths = append(textMapPaths, p)
	}
	if err := loadTable(ctx, l, rep, TableTextMap, textMapPaths, decodeTextMap, func(path string, m TextMap) {
		t.TextMaps[langByPath[path]] = m
	}); err != nil {
		return nil, nil, err
	}

	if err := loadTable(ctx, l, rep, TableNPC, []string{l.excel(NPCFile)}, decodeList[NPC], func(_ string, rows []NPC) {
		t.NPCs = append(t.NPCs, rows...)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadTable(ctx, l, rep, TableFetter, []string{l.excel(FetterFile)}, decodeList[FetterLine], func(_ string, rows []FetterLine) {
		t.Fetters = append(t.Fetters, rows...)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadTable(ctx, l, rep, TableCardChar, []string{l.excel(CardCharFile)}, decodeList[CardCharacter], func(_ string, rows []CardCharacter) {
		t.CardCharacters = append(t.CardCharacters, rows...)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadTable(ctx, l, rep, TableCardTalk, []string{l.excel(CardTalkFile)}, decodeList[CardTalk], func(_ string, rows []CardTalk) {
		t.CardTalks = append(t.CardTalks, rows...)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadTable(ctx, l, rep, TableTutorial, []string{l.excel(TutorialFile)}, decodeList[TutorialComment], func(_ string, rows []TutorialComment) {
		t.Tutorials = append(t.Tutorials, rows...)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadTable(ctx, l, rep, TableReminder, []string{l.excel(ReminderFile)}, decodeList[Reminder], func(_ string, rows []Reminder) {
		t.Reminders = append(t.Reminders, rows...)
	}); err != nil {
		return nil, nil, err
	}

	if err := l.loadAvatars(ctx, t, rep); err != nil {
		return nil, nil, err
	}

	l.metrics().ObservePhase(ctx, "load", start)
	l.logger().Info("game data loaded",
		"records", len(t.Records),
		"dialogues", len(t.Dialogues),
		"avatars", len(t.Avatars),
		"failed_documents", len(rep.Failed),
		"elapsed", time.Since(start))
	return t, rep, nil
}

// loadAvatars keeps formal avatars and fetches one audio config per avatar
// to learn its voice switch name.
func (l *Loader) loadAvatars(ctx context.Context, t *Tables, rep *LoadReport) error {
	var all []Avatar
	if err := loadTable(ctx, l, rep, TableAvatar, []string{l.excel(AvatarFile)}, decodeList[Avatar], func(_ string, rows []Avatar) {
		all = append(all, rows...)
	}); err != nil {
		return err
	}

	byPath := make(map[string][]int)
	var cfgPaths []string
	for _, a := range all {
		if !a.Formal() {
			continue
		}
		t.Avatars = append(t.Avatars, a)
		key := a.ConfigKey()
		if key == "" {
			continue
		}
		p := filepath.Join(l.Root, AvatarDir, key+documentSuffix)
		if _, seen := byPath[p]; !seen {
			cfgPaths = append(cfgPaths, p)
		}
		byPath[p] = append(byPath[p], len(t.Avatars)-1)
	}
	return loadTable(ctx, l, rep, TableAvatarCfg, cfgPaths, decodeAvatarAudio, func(path string, sw string) {
		for _, i := range byPath[path] {
			t.Avatars[i].VoiceSwitch = sw
		}
	})
}

func loadTable[T any](ctx context.Context, l *Loader, rep *LoadReport, table string, paths []string, decode func(string) (T, error), merge MergeFunc[T]) error {
	m := l.metrics()
	failed, err := LoadBatched(ctx, table, paths, l.BatchSize,
		func(_ context.Context, path string) (T, error) { return decode(path) },
		func(path string, doc T) {
			rep.Loaded[table]++
			m.RecordDocument(ctx, table, true)
			merge(path, doc)
		})
	for _, f := range failed {
		m.RecordDocument(ctx, table, false)
		l.logger().Warn("skipping malformed document", "table", table, "path", f.Path, "err", f.Err)
	}
	rep.Failed = append(rep.Failed, failed...)
	if err != nil {
		return fmt.Errorf("gamedata: load %s: %w", table, err)
	}
	return nil
}
