package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// extensionSet builds a lookup set from an allow-list (lowercase, with dot).
func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return set
}

// extOf returns the lowercase extension of name. Leading dots belong to the
// stem, so ".zip" and "..zip" have no extension.
func extOf(name string) string {
	stem := strings.TrimLeft(name, ".")
	return strings.ToLower(filepath.Ext(stem))
}

// Discover lists dir (non-recursively) and returns the names of regular
// entries whose extension is in exts, compared case-insensitively. Other
// entries are ignored. Names come back in directory-listing order, which
// os.ReadDir sorts by name.
func Discover(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	allowed := extensionSet(exts)
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if allowed[extOf(e.Name())] {
			files = append(files, e.Name())
		}
	}
	return files, nil
}
