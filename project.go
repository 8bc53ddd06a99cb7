package apla

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const APLA_EXTENSION string = ".apla"

// ProjectFiles lists the source files with extension ext directly inside dir,
// sorted by name. Subdirectories are not searched.
func ProjectFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// UnitName is the name of the compilation unit stored at path: its base name
// without the extension.
func UnitName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(path)
	return strings.TrimSuffix(name, ext)
}

// outputPaths returns where the header and the source of unit name go.
func outputPaths(dir, name string) (header, source string) {
	return filepath.Join(dir, name+".h"), filepath.Join(dir, name+".c")
}
