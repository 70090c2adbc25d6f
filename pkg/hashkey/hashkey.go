// Package hashkey recomputes the content-addressed names of extracted audio files.
//
// The extractor names every clip after the FNV-1a 64 fingerprint of
// "{Language}\{SourceFileName}", so the same function links game data back
// to the files on disk.
package hashkey

import (
	"hash/fnv"
	"strconv"
)

// Separator joins the language label and the source file name.
// It must stay a backslash; any other value matches nothing on disk.
const Separator = `\`

// Fingerprint returns the FNV-1a 64-bit hash of path's raw bytes.
func Fingerprint(path string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return h.Sum64()
}

// Format renders a fingerprint the way the extractor names files:
// 16 lower-case hex digits, zero padded.
func Format(sum uint64) string {
	s := strconv.FormatUint(sum, 16)
	if len(s) < 16 {
		s = "0000000000000000"[:16-len(s)] + s
	}
	return s
}

// AssetKey returns the asset key for a source file name authored for
// the given language label (for example "English(US)").
func AssetKey(languageLabel, sourceFileName string) string {
	return Format(Fingerprint(languageLabel + Separator + sourceFileName))
}

// FileName returns the on-disk name of an asset with the given extension (".wav").
func FileName(key, ext string) string {
	return key + ext
}
