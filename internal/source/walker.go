package source

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var ignoredDirs = []string{".git", ".build", "DerivedData", "Pods", "Carthage", ".swiftpm"}

// DiscoverFiles walks root and returns every Swift file accepted by the
// include filter, in sorted order.
func DiscoverFiles(root string, included func(path string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ign := range ignoredDirs {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".swift") {
			return nil
		}
		if included != nil && !included(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// LoadFiles parses every discovered file. Files that fail to read or parse
// are skipped so one broken input cannot abort the run.
func LoadFiles(paths []string) []*SourceFile {
	var out []*SourceFile
	for _, p := range paths {
		f, err := ParseFile(p)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}
