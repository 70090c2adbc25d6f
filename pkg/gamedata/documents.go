package gamedata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/japaniel/voiceset/pkg/voice"
)

// RoleNPC is the dialogue speaker role tag for NPC speakers.
const RoleNPC = "TALK_ROLE_NPC"

// FormalAvatar marks released playable characters in the avatar registry.
const FormalAvatar = "AVATAR_FORMAL"

const (
	avatarIconPrefix   = "UI_AvatarIcon_"
	avatarConfigPrefix = "ConfigAvatar_"
)

// Text is a field authored as either a string or a number; both decode to a string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("gamedata: text field: %w", err)
	}
	*t = Text(n.String())
	return nil
}

// TalkRole is the speaker descriptor on a dialogue node.
type TalkRole struct {
	Type  string `json:"type"`
	ID    Text   `json:"id"`
	AltID Text   `json:"_id"`
}

// Identity returns the role-specific id: the primary id, else the alternate, else "".
func (r TalkRole) Identity() string {
	if r.ID != "" {
		return string(r.ID)
	}
	return string(r.AltID)
}

// DialogueNode is one node of a dialogue tree.
type DialogueNode struct {
	ID              voice.Number `json:"id"`
	Role            TalkRole     `json:"talkRole"`
	TextHash        voice.Number `json:"talkContentTextMapHash"`
	SpeakerNameHash voice.Number `json:"talkRoleNameTextMapHash"`
}

// NPC is one entry of the NPC registry.
type NPC struct {
	ID       voice.Number `json:"id"`
	NameHash voice.Number `json:"nameTextMapHash"`
}

// Avatar is one playable character. VoiceSwitch is filled from the
// character's audio config, not from the registry itself.
type Avatar struct {
	ID          voice.Number `json:"id"`
	NameHash    voice.Number `json:"nameTextMapHash"`
	IconName    string       `json:"iconName"`
	UseType     string       `json:"useType"`
	VoiceSwitch string       `json:"-"`
}

// Formal reports whether the avatar is a released character.
func (a Avatar) Formal() bool {
	return a.UseType == FormalAvatar
}

// ConfigKey derives the companion audio-config document name from the icon name.
func (a Avatar) ConfigKey() string {
	if !strings.HasPrefix(a.IconName, avatarIconPrefix) {
		return ""
	}
	return avatarConfigPrefix + strings.TrimPrefix(a.IconName, avatarIconPrefix)
}

// AvatarAudio is the part of a per-character config document that names its
// voice switch.
type AvatarAudio struct {
	Audio struct {
		VoiceSwitch struct {
			Text string `json:"text"`
		} `json:"voiceSwitch"`
	} `json:"audio"`
}

// FetterLine is one relationship voice line.
type FetterLine struct {
	VoiceFile voice.Number `json:"voiceFile"`
	AvatarID  voice.Number `json:"avatarId"`
	TextHash  voice.Number `json:"voiceFileTextTextMapHash"`
}

// CardCharacter is one card-game character.
type CardCharacter struct {
	ID          voice.Number `json:"id"`
	NameHash    voice.Number `json:"nameTextMapHash"`
	VoiceSwitch string       `json:"voiceSwitch"`
}

// CardTalk is one card-game dialogue line keyed by its voice id.
type CardTalk struct {
	VoiceID     voice.Number `json:"voiceId"`
	TextHash    voice.Number `json:"talkContentTextMapHash"`
	CharacterID voice.Number `json:"talkCharacterId"`
}

// TutorialComment is one card-game tutorial comment.
type TutorialComment struct {
	ID       voice.Number `json:"id"`
	TextHash voice.Number `json:"commentTextMapHash"`
}

// Reminder is one dungeon reminder line.
type Reminder struct {
	ID          voice.Number `json:"id"`
	SpeakerHash voice.Number `json:"speakerTextMapHash"`
	ContentHash voice.Number `json:"contentTextMapHash"`
}

// TextMap maps a localization hash to its display string.
type TextMap map[int64]string

func readJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid json")
	}
	return data, nil
}

func firstByte(data []byte) byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

// decodeTalk reads a dialogue-tree document. Documents without a dialogList
// (other Talk exports share the directory) decode to no nodes.
func decodeTalk(path string) ([]DialogueNode, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	if firstByte(data) != '{' {
		return nil, nil
	}
	var doc struct {
		DialogList []DialogueNode `json:"dialogList"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.DialogList, nil
}

// decodeVoice reads a voice-source document into canonical records.
func decodeVoice(path string) ([]voice.SourceRecord, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	if firstByte(data) != '{' {
		return nil, nil
	}
	return voice.DecodeDocument(data)
}

// decodeList reads an excel-style table: a JSON array of rows. Any other
// top-level shape is treated as an empty table.
func decodeList[T any](path string) ([]T, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	if firstByte(data) != '[' {
		return nil, nil
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// decodeTextMap reads a localization table. Keys that are not integers are
// ignored.
func decodeTextMap(path string) (TextMap, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(TextMap, len(raw))
	for k, v := range raw {
		h, err := parseHash(k)
		if err != nil {
			continue
		}
		out[h] = v
	}
	return out, nil
}

func parseHash(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return int64(u), nil
}

// decodeAvatarAudio reads a per-character config and returns its voice switch.
func decodeAvatarAudio(path string) (string, error) {
	data, err := readJSON(path)
	if err != nil {
		return "", err
	}
	var doc AvatarAudio
	if firstByte(data) != '{' {
		return "", nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	return doc.Audio.VoiceSwitch.Text, nil
}
