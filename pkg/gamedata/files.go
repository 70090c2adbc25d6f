package gamedata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFiles returns every regular file under root whose extension matches
// ext (case-insensitive), in lexical walk order. A missing root is an error.
func FindFiles(root, ext string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gamedata: find %s files under %q: %w", ext, root, err)
	}
	return out, nil
}
