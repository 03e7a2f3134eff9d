// Package scanner discovers log files and aggregates them concurrently
// into a single result.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover resolves paths into a sorted list of log files. A file path
// is taken verbatim; a directory contributes its immediate regular
// files, skipping subdirectories and dot-files. Discovery does not
// recurse. A path that does not exist fails the whole run.
func Discover(paths ...string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("discover logs: %w", err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("discover logs: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
