// Package index builds the read-only lookup structures used by the resolver.
//
// An Index is built once from loaded tables and never mutated afterwards, so
// it can be shared by any number of goroutines without locking. All string
// keys go through [NormalizeKey] both when the index is built and when it is
// queried.
package index

import (
	"strconv"
	"strings"

	"github.com/japaniel/voiceset/pkg/gamedata"
	"github.com/japaniel/voiceset/pkg/voice"
)

// Index holds every cross-reference the resolver joins against.
type Index struct {
	dialogues map[int64]gamedata.DialogueNode
	text      map[voice.Language]gamedata.TextMap
	npcNames  map[int64]int64

	avatarsByID          map[int64]gamedata.Avatar
	avatarsByVoiceSwitch map[string]gamedata.Avatar
	avatarsByConfigKey   map[string]gamedata.Avatar
	fetters              map[string]gamedata.FetterLine

	cardCharacters map[string]gamedata.CardCharacter
	cardTalks      map[int64]gamedata.CardTalk
	tutorials      map[int64]gamedata.TutorialComment
	reminders      map[int64]gamedata.Reminder
}

// NormalizeKey lower-cases a name used for matching.
func NormalizeKey(s string) string {
	return strings.ToLower(s)
}

// FetterKey builds the relationship-line key "{voiceFile}_{avatarID}".
func FetterKey(voiceFile, avatarID int64) string {
	return strconv.FormatInt(voiceFile, 10) + "_" + strconv.FormatInt(avatarID, 10)
}

// Build indexes t. Dialogue nodes sharing an id resolve to the last one in
// merge order.
func Build(t *gamedata.Tables) *Index {
	idx := &Index{
		dialogues:            make(map[int64]gamedata.DialogueNode, len(t.Dialogues)),
		text:                 make(map[voice.Language]gamedata.TextMap, len(t.TextMaps)),
		npcNames:             make(map[int64]int64, len(t.NPCs)),
		avatarsByID:          make(map[int64]gamedata.Avatar, len(t.Avatars)),
		avatarsByVoiceSwitch: make(map[string]gamedata.Avatar, len(t.Avatars)),
		avatarsByConfigKey:   make(map[string]gamedata.Avatar, len(t.Avatars)),
		fetters:              make(map[string]gamedata.FetterLine, len(t.Fetters)),
		cardCharacters:       make(map[string]gamedata.CardCharacter, len(t.CardCharacters)),
		cardTalks:            make(map[int64]gamedata.CardTalk, len(t.CardTalks)),
		tutorials:            make(map[int64]gamedata.TutorialComment, len(t.Tutorials)),
		reminders:            make(map[int64]gamedata.Reminder, len(t.Reminders)),
	}
	for _, n := range t.Dialogues {
		idx.dialogues[int64(n.ID)] = n
	}
	for lang, m := range t.TextMaps {
		idx.text[lang] = m
	}
	for _, n := range t.NPCs {
		idx.npcNames[int64(n.ID)] = int64(n.NameHash)
	}
	for _, a := range t.Avatars {
		if !a.Formal() {
			continue
		}
		idx.avatarsByID[int64(a.ID)] = a
		if a.VoiceSwitch != "" {
			idx.avatarsByVoiceSwitch[NormalizeKey(a.VoiceSwitch)] = a
		}
		if key := a.ConfigKey(); key != "" {
			idx.avatarsByConfigKey[NormalizeKey(key)] = a
		}
	}
	for _, f := range t.Fetters {
		idx.fetters[FetterKey(int64(f.VoiceFile), int64(f.AvatarID))] = f
	}
	for _, c := range t.CardCharacters {
		if c.VoiceSwitch != "" {
			idx.cardCharacters[NormalizeKey(c.VoiceSwitch)] = c
		}
	}
	for _, c := range t.CardTalks {
		idx.cardTalks[int64(c.VoiceID)] = c
	}
	for _, c := range t.Tutorials {
		idx.tutorials[int64(c.ID)] = c
	}
	for _, r := range t.Reminders {
		idx.reminders[int64(r.ID)] = r
	}
	return idx
}

// Dialogue returns the dialogue node with the given id.
func (x *Index) Dialogue(id int64) (gamedata.DialogueNode, bool) {
	n, ok := x.dialogues[id]
	return n, ok
}

// Text returns the localized string for hash in lang, or "" on a miss.
func (x *Index) Text(lang voice.Language, hash int64) string {
	if hash == 0 {
		return ""
	}
	return x.text[lang][hash]
}

// SpeakerName returns a speaker name from the canonical speaker language.
func (x *Index) SpeakerName(hash int64) string {
	return x.Text(voice.SpeakerLanguage, hash)
}

// NPCNameHash returns the name hash of the NPC with the given id.
func (x *Index) NPCNameHash(id int64) (int64, bool) {
	h, ok := x.npcNames[id]
	return h, ok
}

// AvatarByID returns a formal playable character by id.
func (x *Index) AvatarByID(id int64) (gamedata.Avatar, bool) {
	a, ok := x.avatarsByID[id]
	return a, ok
}

// AvatarByVoiceSwitch returns a formal playable character by voice switch name.
func (x *Index) AvatarByVoiceSwitch(name string) (gamedata.Avatar, bool) {
	a, ok := x.avatarsByVoiceSwitch[NormalizeKey(name)]
	return a, ok
}

// AvatarByConfigKey returns a formal playable character by its internal
// config key, e.g. "ConfigAvatar_Ganyu".
func (x *Index) AvatarByConfigKey(key string) (gamedata.Avatar, bool) {
	a, ok := x.avatarsByConfigKey[NormalizeKey(key)]
	return a, ok
}

// Fetter returns the relationship line for a voice file and character.
func (x *Index) Fetter(voiceFile, avatarID int64) (gamedata.FetterLine, bool) {
	f, ok := x.fetters[FetterKey(voiceFile, avatarID)]
	return f, ok
}

// CardCharacter returns a card-game character by voice switch name.
func (x *Index) CardCharacter(name string) (gamedata.CardCharacter, bool) {
	c, ok := x.cardCharacters[NormalizeKey(name)]
	return c, ok
}

// CardTalk returns the card-game dialogue line for a voice id.
func (x *Index) CardTalk(voiceID int64) (gamedata.CardTalk, bool) {
	c, ok := x.cardTalks[voiceID]
	return c, ok
}

// Tutorial returns the tutorial comment with the given trigger id.
func (x *Index) Tutorial(id int64) (gamedata.TutorialComment, bool) {
	c, ok := x.tutorials[id]
	return c, ok
}

// Reminder returns the reminder with the given id.
func (x *Index) Reminder(id int64) (gamedata.Reminder, bool) {
	r, ok := x.reminders[id]
	return r, ok
}

// Sizes reports entry counts per sub-index, for logging.
func (x *Index) Sizes() map[string]int {
	return map[string]int{
		"dialogues":       len(x.dialogues),
		"npcs":            len(x.npcNames),
		"avatars":         len(x.avatarsByID),
		"avatar_switches": len(x.avatarsByVoiceSwitch),
		"avatar_configs":  len(x.avatarsByConfigKey),
		"fetters":         len(x.fetters),
		"card_characters": len(x.cardCharacters),
		"card_talks":      len(x.cardTalks),
		"tutorials":       len(x.tutorials),
		"reminders":       len(x.reminders),
	}
}
