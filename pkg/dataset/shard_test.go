package dataset

import "testing"

func TestShardPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"key", "abcd1234", "ab/cd"},
		{"file name", "abcd1234.wav", "ab/cd"},
		{"dot inside prefix", "a.bcd", "ab/cd"},
		{"short", "ab", "ab/00"},
		{"empty", "", "00/00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShardPath(tt.in); got != tt.want {
				t.Errorf("ShardPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRelativePath(t *testing.T) {
	got := RelativePath("0f1e2d3c4b5a6978", "0f1e2d3c4b5a6978.wav")
	if want := "wavs/0f/1e/0f1e2d3c4b5a6978.wav"; got != want {
		t.Errorf("RelativePath = %q, want %q", got, want)
	}
}
