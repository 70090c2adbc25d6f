package resolve

import (
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/japaniel/voiceset/pkg/gamedata"
	"github.com/japaniel/voiceset/pkg/hashkey"
	"github.com/japaniel/voiceset/pkg/voice"
)

// Catalog holds one asset per discovered audio file, keyed by asset key.
type Catalog map[string]*voice.Asset

// Discover creates an unmatched asset for every file under dir with the
// given extension. The asset key is the file's base name without extension.
// When two files share a key the first in walk order is kept.
func Discover(dir, ext string, logger *slog.Logger) (Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := gamedata.FindFiles(dir, ext)
	if err != nil {
		return nil, fmt.Errorf("resolve: discover audio: %w", err)
	}
	c := make(Catalog, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		key := strings.TrimSuffix(name, filepath.Ext(name))
		if prev, dup := c[key]; dup {
			logger.Warn("duplicate asset key", "key", key, "kept", prev.Path, "ignored", p)
			continue
		}
		c[key] = voice.NewAsset(key, p, name)
	}
	return c, nil
}

// Keys returns the asset keys in lexical order.
func (c Catalog) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Sorted returns the assets ordered by key.
func (c Catalog) Sorted() []*voice.Asset {
	out := make([]*voice.Asset, 0, len(c))
	for _, k := range c.Keys() {
		out = append(out, c[k])
	}
	return out
}

// Link recomputes the file name of every (source file, language) pair of
// each record and binds the record to the asset with that name. Records are
// applied in order, so a later record overwrites the provenance fields of an
// earlier one while its trigger binding is appended. It returns the number
// of distinct assets matched.
func (c Catalog) Link(records []voice.SourceRecord) int {
	matched := make(map[string]struct{})
	for _, rec := range records {
		if !rec.Matchable() {
			continue
		}
		for _, src := range rec.SourceNames {
			if src.SourceFileName == "" {
				continue
			}
			for _, lang := range voice.Languages() {
				key := hashkey.AssetKey(string(lang), src.SourceFileName)
				a, ok := c[key]
				if !ok {
					continue
				}
				a.Bind(rec, src, lang)
				matched[key] = struct{}{}
			}
		}
	}
	return len(matched)
}
