package kdict

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FAU-CDI/kdict/internal/source"
)

var errWrongArgCount = errors.New("need at most one argument")

// FindSource finds the source location for the given arguments.
//
// Without arguments, the default remote spreadsheet is used.
// A remote url is returned unchanged.
// A directory must contain exactly one '*.csv' file.
// Anything else must be a regular file.
//
// FindSource does not guarantee that contents are loadable.
func FindSource(argv ...string) (string, error) {
	switch {
	case len(argv) == 0 || (len(argv) == 1 && argv[0] == ""):
		return source.DefaultURL, nil
	case len(argv) > 1:
		return "", errWrongArgCount
	}

	path := argv[0]
	if source.IsRemote(path) {
		return path, nil
	}

	isDir, err := isDirectory(path)
	if err != nil {
		return "", err
	}

	if isDir {
		csvs, err := filepath.Glob(filepath.Join(path, "*.csv"))
		if err != nil {
			return "", err
		}
		if len(csvs) != 1 {
			return "", fmt.Errorf("need exactly one '*.csv' in %q, but got %d", path, len(csvs))
		}
		path = csvs[0]
	}

	ok, err := isFile(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%q is not a regular file", path)
	}
	return path, nil
}

func isDirectory(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsDir(), nil
}

// isFile checks if path is a regular file.
func isFile(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsRegular(), nil
}
