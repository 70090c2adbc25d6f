// Package voice holds the data model shared by the resolution pipeline:
// audio assets, trigger bindings, and canonical voice-source records.
package voice

// TriggerKind names the in-game system that plays a voice line.
type TriggerKind string

const (
	TriggerDialog          TriggerKind = "Dialog"
	TriggerFetter          TriggerKind = "Fetter"
	TriggerCard            TriggerKind = "Card"
	TriggerDungeonReminder TriggerKind = "DungeonReminder"
)

// TriggerBinding is one (kind, argument, speaker hint) tuple copied from a
// voice-source record. It is never modified after creation.
type TriggerBinding struct {
	Kind        TriggerKind `json:"kind"`
	Args        int64       `json:"args"`
	SpeakerHint string      `json:"speakerHint,omitempty"`
}

// Asset is one physical audio file, identified by its content-hash key.
type Asset struct {
	Key string `json:"-"`
	// Path is the location of the extracted file; FileName is its base name.
	Path     string `json:"-"`
	FileName string `json:"fileName"`

	InGameFileName  string           `json:"inGameFileName"`
	Language        Language         `json:"language"`
	Transcription   string           `json:"transcription"`
	Speaker         string           `json:"speaker"`
	SpeakerRoleKind string           `json:"speakerRoleKind"`
	OriginGUID      string           `json:"originGuid"`
	Bindings        []TriggerBinding `json:"triggerBindings"`
}

// NewAsset returns an unmatched asset for a discovered file.
func NewAsset(key, path, fileName string) *Asset {
	return &Asset{Key: key, Path: path, FileName: fileName, Bindings: []TriggerBinding{}}
}

// SetTranscription stores s unless it is empty. Resolution only ever adds
// information, so a non-empty transcription is never cleared.
func (a *Asset) SetTranscription(s string) bool {
	if s == "" {
		return false
	}
	a.Transcription = s
	return true
}

// SetSpeaker stores s unless it is empty.
func (a *Asset) SetSpeaker(s string) bool {
	if s == "" {
		return false
	}
	a.Speaker = s
	return true
}

// SetSpeakerRoleKind stores s unless it is empty.
func (a *Asset) SetSpeakerRoleKind(s string) bool {
	if s == "" {
		return false
	}
	a.SpeakerRoleKind = s
	return true
}

// Bind records a match against a voice-source record.
func (a *Asset) Bind(rec SourceRecord, src SourceName, lang Language) {
	a.InGameFileName = src.SourceFileName
	a.Language = lang
	a.OriginGUID = rec.GUID
	a.Bindings = append(a.Bindings, TriggerBinding{
		Kind:        rec.GameTrigger,
		Args:        int64(rec.GameTriggerArgs),
		SpeakerHint: src.AvatarName,
	})
}

// Matched reports whether the asset was linked to any voice-source record.
func (a *Asset) Matched() bool {
	return len(a.Bindings) > 0
}

// LastTrigger returns the kind of the most recent binding, or "".
func (a *Asset) LastTrigger() TriggerKind {
	if len(a.Bindings) == 0 {
		return ""
	}
	return a.Bindings[len(a.Bindings)-1].Kind
}
