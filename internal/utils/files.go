package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return nil
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON without HTML escaping.
func PrettyJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrNoMatches is returned by ExpandPaths when nothing matched.
var ErrNoMatches = errors.New("no input files matched")

// ExpandPaths resolves glob patterns, treating a pattern without matches as a
// literal path when that path exists. The result is sorted and de-duplicated.
func ExpandPaths(patterns []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range patterns {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoMatches
	}
	sort.Strings(files)
	return files, nil
}

// UniqueDir returns base joined with name, adding "__2", "__3", ... when the
// directory was already handed out in used.
func UniqueDir(base, name string, used map[string]bool) string {
	dir := filepath.Join(base, name)
	for n := 2; used[dir]; n++ {
		dir = filepath.Join(base, fmt.Sprintf("%s__%d", name, n))
	}
	used[dir] = true
	return dir
}
