package hashkey

import "testing"

func TestFingerprintKnownVectors(t *testing.T) {
	// Published FNV-1a 64 test vectors.
	tests := []struct {
		in   string
		want uint64
	}{
		{"", 0xcbf29ce484222325},
		{"a", 0xaf63dc4c8601ec8c},
		{"foobar", 0x85944171f73967e8},
	}
	for _, tt := range tests {
		if got := Fingerprint(tt.in); got != tt.want {
			t.Errorf("Fingerprint(%q) = %#x; want %#x", tt.in, got, tt.want)
		}
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	in := `Japanese\VO_AQ\VO_ganyu\vo_ganyu_dialog_01.wem`
	first := Fingerprint(in)
	for i := 0; i < 10; i++ {
		if got := Fingerprint(in); got != first {
			t.Fatalf("fingerprint changed between calls: %#x != %#x", got, first)
		}
	}
}

func TestFingerprintIsSeparatorAndCaseSensitive(t *testing.T) {
	base := Fingerprint(`English(US)\vo_test.wem`)
	variants := []string{
		`English(US)/vo_test.wem`,
		`english(us)\vo_test.wem`,
		`English\vo_test.wem`,
		`English(US)\VO_TEST.wem`,
	}
	for _, v := range variants {
		if Fingerprint(v) == base {
			t.Errorf("expected %q to hash differently from the canonical form", v)
		}
	}
}

func TestFormatPadsToSixteenDigits(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0000000000000000"},
		{0xabc, "0000000000000abc"},
		{0xcbf29ce484222325, "cbf29ce484222325"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%#x) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssetKeyUsesBackslashJoin(t *testing.T) {
	got := AssetKey("Korean", "vo_x.wem")
	want := Format(Fingerprint(`Korean\vo_x.wem`))
	if got != want {
		t.Fatalf("AssetKey = %q; want %q", got, want)
	}
	if FileName(got, ".wav") != want+".wav" {
		t.Fatalf("unexpected file name %q", FileName(got, ".wav"))
	}
}
