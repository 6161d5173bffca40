// Package fonts resolves a font name or path to a TTF/OTF file under the asset font directories.
package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ErrNotFound is returned by Find when nothing matches.
var ErrNotFound = errors.New("fonts: no matching font")

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// Dirs are searched in order, relative to the working directory.
var Dirs = []string{"assets/fonts", "../../assets/fonts"}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns the font files under dir as slash-separated paths relative to dir.
// A missing dir yields no fonts and no error.
func Scan(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

// List returns every font under Dirs, as paths usable with Find.
func List() []string {
	var out []string
	for _, dir := range Dirs {
		list, err := Scan(dir)
		if err != nil {
			continue
		}
		out = append(out, list...)
	}
	return out
}

// normalize lowercases and drops spaces, dashes and underscores so "Fira Sans" matches "FiraSans-Regular.ttf".
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find returns the file for search. An existing font file path (~ allowed) is returned as is.
// Otherwise search is matched against the fonts under Dirs; with several matches the one
// with "regular" in its name wins, then the first in scan order.
func Find(search string) (string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", ErrNotFound
	}
	if path, err := homedir.Expand(search); err == nil && isFont(path) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	want := normalize(strings.TrimSuffix(search, filepath.Ext(search)))
	var matches []string
	for _, dir := range Dirs {
		list, err := Scan(dir)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), want) {
				matches = append(matches, filepath.Join(dir, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNotFound, search)
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
