// Package gamedatatest writes small game-data corpora for tests.
package gamedatatest

import (
	"os"
	"path/filepath"
	"testing"
)

// Corpus maps a path relative to the game-data root to file content.
type Corpus map[string]string

// Source file names referenced by the default corpus.
const (
	DialogSource   = `VO_AQ\VO_npc\vo_dialog_01.wem`
	FetterSource   = `VO_friendship\VO_ganyu\vo_ganyu_chat_01.wem`
	CardSource     = `VO_gcg\vo_gcg_ganyu_01.wem`
	ReminderSource = `VO_dungeon\vo_reminder_01.wem`
	UnknownSource  = `VO_misc\vo_unknown.wem`
)

// Default returns a corpus that exercises every trigger kind, a legacy voice
// record, a malformed document and an unrelated Talk export.
func Default() Corpus {
	return Corpus{
		"BinOutput/Voice/Items/dialog.json": `{
  "100": {"guid":"g-dialog","playRate":1,"gameTrigger":"Dialog","gameTriggerArgs":101,
          "sourceNames":[{"sourceFileName":"VO_AQ\\VO_npc\\vo_dialog_01.wem","rate":1}]},
  "101": {"guid":"g-silent","gameTrigger":"Dialog","gameTriggerArgs":102}
}`,
		"BinOutput/Voice/Items/legacy.json": `{
  "200": {"Guid":"g-fetter","GameTrigger":"Fetter","gameTriggerArgs":"7","ParentID":"",
          "SourceNames":[{"sourceFileName":"VO_friendship\\VO_ganyu\\vo_ganyu_chat_01.wem","avatarName":"GANYU"}]}
}`,
		"BinOutput/Voice/Items/card.json": `{
  "300": {"guid":"g-card","gameTrigger":"Card","gameTriggerArgs":300,
          "sourceNames":[{"sourceFileName":"VO_gcg\\vo_gcg_ganyu_01.wem","avatarName":"Ganyu"}]},
  "400": {"guid":"g-reminder","gameTrigger":"DungeonReminder","gameTriggerArgs":500,
          "sourceNames":[{"sourceFileName":"VO_dungeon\\vo_reminder_01.wem"}]}
}`,
		"BinOutput/Voice/Items/broken.json": `{"guid": `,
		"BinOutput/Talk/Npc/101.json": `{
  "talkId": 1,
  "dialogList": [
    {"id":101,"talkRole":{"type":"TALK_ROLE_NPC","id":"9001"},"talkContentTextMapHash":1001},
    {"id":102,"talkRole":{"type":"TALK_ROLE_PLAYER"},"talkContentTextMapHash":1002,"talkRoleNameTextMapHash":0}
  ]
}`,
		"BinOutput/Talk/Quest/unrelated.json":      `[{"questId":1}]`,
		"BinOutput/Avatar/ConfigAvatar_Ganyu.json": `{"audio":{"voiceSwitch":{"text":"Ganyu"}}}`,
		"TextMap/TextMapCHS.json":                  `{"1001":"你好","4001":"甘雨的闲聊","5001":"卡牌台词","6002":"请小心"}`,
		"TextMap/TextMapEN.json": `{"1001":"Hello","2001":"Katheryne","3001":"Ganyu","4001":"Ganyu chat",
  "5001":"Card line","6001":"Paimon","6002":"Be careful","7001":"Tutorial tip"}`,
		"TextMap/TextMapJP.json":                 `{"1001":"こんにちは","4001":"甘雨の雑談","5001":"カードの台詞","6002":"気をつけて"}`,
		"TextMap/TextMapKR.json":                 `{"1001":"안녕하세요","4001":"감우 잡담","5001":"카드 대사","6002":"조심해"}`,
		"ExcelBinOutput/NpcExcelConfigData.json": `[{"id":9001,"nameTextMapHash":2001}]`,
		"ExcelBinOutput/AvatarExcelConfigData.json": `[
  {"id":10000037,"nameTextMapHash":3001,"iconName":"UI_AvatarIcon_Ganyu","useType":"AVATAR_FORMAL"},
  {"id":10000900,"nameTextMapHash":3999,"iconName":"UI_AvatarIcon_Test","useType":"AVATAR_SYNC_TEST"}
]`,
		"ExcelBinOutput/FettersExcelConfigData.json":         `[{"voiceFile":"7","avatarId":10000037,"voiceFileTextTextMapHash":4001}]`,
		"ExcelBinOutput/GCGCharExcelConfigData.json":         `[{"id":1103,"nameTextMapHash":3001,"voiceSwitch":"GanYu"}]`,
		"ExcelBinOutput/GCGTalkDetailExcelConfigData.json":   `[{"voiceId":300,"talkContentTextMapHash":5001,"talkCharacterId":10000037}]`,
		"ExcelBinOutput/GCGTutorialTextExcelConfigData.json": `[{"id":301,"commentTextMapHash":7001}]`,
		"ExcelBinOutput/ReminderExcelConfigData.json":        `[{"id":500,"speakerTextMapHash":6001,"contentTextMapHash":6002}]`,
	}
}

// Write materializes c under root.
func Write(t testing.TB, root string, c Corpus) {
	t.Helper()
	for rel, content := range c {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}
