package utils

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFiles recursively finds the files under dir whose base name matches
// any of patterns. Hidden directories are skipped. Results are in lexical
// walk order.
func FindFiles(dir string, patterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		for _, pattern := range patterns {
			matched, err := filepath.Match(pattern, d.Name())
			if err != nil {
				return err
			}
			if matched {
				files = append(files, path)
				break
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
