package aggregate

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// findFiles walks dir recursively and returns the files whose names end in
// one of suffixes, sorted by path. A missing dir yields no files.
func (a *Aggregator) findFiles(dir string, suffixes []string) ([]string, error) {
	exists, err := afero.DirExists(a.fs, dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		a.logger.Debug().Str("dir", dir).Msg("directory does not exist, nothing to load")
		return nil, nil
	}

	var files []string
	err = afero.Walk(a.fs, dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		if hasAnySuffix(info.Name(), suffixes) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	if len(files) == 0 {
		a.logger.Debug().
			Str("dir", dir).
			Strs("suffixes", suffixes).
			Msg("directory contains no matching files")
	}
	return files, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
