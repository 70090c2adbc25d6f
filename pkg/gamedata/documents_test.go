package gamedata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestTalkRoleIdentityFallback(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"type":"TALK_ROLE_NPC","id":"9001","_id":"9002"}`, "9001"},
		{`{"type":"TALK_ROLE_NPC","_id":9002}`, "9002"},
		{`{"type":"TALK_ROLE_NPC"}`, ""},
	}
	for _, tt := range tests {
		var r TalkRole
		if err := json.Unmarshal([]byte(tt.in), &r); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if got := r.Identity(); got != tt.want {
			t.Errorf("Identity(%s) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestAvatarConfigKey(t *testing.T) {
	tests := []struct {
		icon, want string
	}{
		{"UI_AvatarIcon_Ganyu", "ConfigAvatar_Ganyu"},
		{"UI_AvatarIcon_PlayerBoy", "ConfigAvatar_PlayerBoy"},
		{"Icon_Ganyu", ""},
	}
	for _, tt := range tests {
		if got := (Avatar{IconName: tt.icon}).ConfigKey(); got != tt.want {
			t.Errorf("ConfigKey(%q) = %q; want %q", tt.icon, got, tt.want)
		}
	}
}

func TestDecodeListToleratesOtherShapes(t *testing.T) {
	rows, err := decodeList[NPC](writeDoc(t, `{"not":"a list"}`))
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected empty table, got %v, %v", rows, err)
	}
	if _, err := decodeList[NPC](writeDoc(t, `[{"id":`)); err == nil {
		t.Fatalf("expected error for truncated document")
	}
}

func TestDecodeTalkWithoutDialogList(t *testing.T) {
	nodes, err := decodeTalk(writeDoc(t, `{"talkId":5,"npcId":[1]}`))
	if err != nil || len(nodes) != 0 {
		t.Fatalf("expected no nodes, got %v, %v", nodes, err)
	}
}

func TestDecodeTextMapSkipsNonNumericKeys(t *testing.T) {
	m, err := decodeTextMap(writeDoc(t, `{"12":"a","x":"b","18446744073709551615":"c"}`))
	if err != nil {
		t.Fatalf("decodeTextMap: %v", err)
	}
	if len(m) != 2 || m[12] != "a" || m[-1] != "c" {
		t.Fatalf("unexpected text map %v", m)
	}
}
