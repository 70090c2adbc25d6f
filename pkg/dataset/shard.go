package dataset

import (
	"path"
	"strings"
)

// shardStrip removes separators from a name before it is bucketed.
var shardStrip = strings.NewReplacer(".", "", "/", "", `\`, "")

// ShardPath returns the two-level shard directory for a file or key name:
// the first two and the next two characters once separators are stripped.
// Hex keys fan out to at most 256x256 leaf directories. Short names are
// padded with '0'.
func ShardPath(name string) string {
	s := shardStrip.Replace(name)
	if len(s) < 4 {
		s += strings.Repeat("0", 4-len(s))
	}
	return s[0:2] + "/" + s[2:4]
}

// RelativePath returns the dataset-relative path of an asset's file,
// "wavs/<shard>/<fileName>", with the shard derived from key.
func RelativePath(key, fileName string) string {
	return path.Join(WavsDir, ShardPath(key), fileName)
}
