package voice

import (
	"encoding/json"
	"reflect"
	"testing"
)

func rawOf(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return raw
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Shape
	}{
		{"current", `{"guid":"a","gameTrigger":"Dialog"}`, ShapeCurrent},
		{"legacy", `{"Guid":"a","GameTrigger":"Dialog"}`, ShapeLegacy},
		{"both prefers current", `{"guid":"a","Guid":"b"}`, ShapeCurrent},
		{"neither", `{"playRate":1}`, ShapeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectShape(rawOf(t, tt.in)); got != tt.want {
				t.Fatalf("DetectShape = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeRecordLegacyRenamesFields(t *testing.T) {
	in := `{"Guid":"g-1","playRate":1,"GameTrigger":"Fetter","gameTriggerArgs":"1103",
		"personalConfig":3,"ParentID":"p","SourceNames":[{"sourceFileName":"vo_a.wem","avatarName":"Ganyu"}]}`
	rec, err := DecodeRecord(json.RawMessage(in))
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	want := SourceRecord{
		GUID:            "g-1",
		PlayRate:        1,
		GameTrigger:     TriggerFetter,
		GameTriggerArgs: 1103,
		PersonalConfig:  3,
		ParentID:        "p",
		SourceNames:     []SourceName{{SourceFileName: "vo_a.wem", AvatarName: "Ganyu"}},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("got %+v\nwant %+v", rec, want)
	}
}

func TestDecodeRecordCurrentAndLegacyAgree(t *testing.T) {
	current := `{"guid":"x","gameTrigger":"Dialog","gameTriggerArgs":42,"sourceNames":[{"sourceFileName":"f.wem"}]}`
	legacy := `{"Guid":"x","GameTrigger":"Dialog","gameTriggerArgs":42,"SourceNames":[{"sourceFileName":"f.wem"}]}`
	a, err := DecodeRecord(json.RawMessage(current))
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	b, err := DecodeRecord(json.RawMessage(legacy))
	if err != nil {
		t.Fatalf("legacy: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("shapes decode differently:\n%+v\n%+v", a, b)
	}
}

func TestDecodeRecordWithoutSourceNamesIsNotMatchable(t *testing.T) {
	rec, err := DecodeRecord(json.RawMessage(`{"guid":"x","gameTrigger":"Dialog","gameTriggerArgs":1}`))
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.SourceNames == nil || len(rec.SourceNames) != 0 {
		t.Fatalf("expected empty non-nil source names, got %#v", rec.SourceNames)
	}
	if rec.Matchable() {
		t.Fatalf("record without source names must not be matchable")
	}
}

func TestDecodeRecordUnknownShapePassesThrough(t *testing.T) {
	rec, err := DecodeRecord(json.RawMessage(`{"gameTrigger":"Card","gameTriggerArgs":5}`))
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.GameTrigger != TriggerCard || rec.GameTriggerArgs != 5 || rec.Matchable() {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestNormalizeRawIdempotent(t *testing.T) {
	inputs := []string{
		`{"guid":"a","gameTrigger":"Dialog","sourceNames":[]}`,
		`{"Guid":"a","GameTrigger":"Dialog","ParentID":"p","SourceNames":[{"sourceFileName":"x"}]}`,
		`{"playRate":2}`,
	}
	for _, in := range inputs {
		once := NormalizeRaw(rawOf(t, in))
		twice := NormalizeRaw(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("normalize not idempotent for %s:\nonce  %v\ntwice %v", in, once, twice)
		}
	}
	current := rawOf(t, inputs[0])
	if got := NormalizeRaw(current); !reflect.DeepEqual(got, current) {
		t.Errorf("canonical record changed: %v", got)
	}
}

func TestNormalizeRawDoesNotMutateInput(t *testing.T) {
	raw := rawOf(t, `{"Guid":"a"}`)
	_ = NormalizeRaw(raw)
	if _, ok := raw["Guid"]; !ok {
		t.Fatalf("input map was mutated")
	}
}

func TestDecodeDocumentOrdersByKey(t *testing.T) {
	doc := `{
		"b": {"guid":"second","gameTrigger":"Dialog","gameTriggerArgs":2},
		"a": {"Guid":"first","GameTrigger":"Dialog","gameTriggerArgs":1}
	}`
	recs, err := DecodeDocument([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if len(recs) != 2 || recs[0].GUID != "first" || recs[1].GUID != "second" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestDecodeDocumentRejectsNonObject(t *testing.T) {
	if _, err := DecodeDocument([]byte(`[1,2,3]`)); err == nil {
		t.Fatalf("expected error for array document")
	}
}

func TestNumberAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want Number
	}{
		{`12`, 12},
		{`"34"`, 34},
		{`""`, 0},
		{`null`, 0},
		{`4294967295`, 4294967295},
	}
	for _, tt := range tests {
		var n Number
		if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if n != tt.want {
			t.Errorf("unmarshal %s = %d; want %d", tt.in, n, tt.want)
		}
	}
	var n Number
	if err := json.Unmarshal([]byte(`"abc"`), &n); err == nil {
		t.Errorf("expected error for non-numeric string")
	}
}
