// internal/scan/scan.go
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Files lists the regular files directly inside dir whose extension matches
// one of exts (case-insensitive, with or without the leading dot). No exts
// matches every regular file. Paths are absolute and sorted lexicographically.
func Files(dir string, exts ...string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = struct{}{}
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
				continue
			}
		}
		out = append(out, filepath.Join(abs, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
