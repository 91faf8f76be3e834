package internal

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
)

// EnumerateOptions selects how the path argument is interpreted.
type EnumerateOptions struct {
	Glob      bool // path is a glob pattern
	Recursive bool // walk sub-directories; with Glob, enables "**"
}

// Enumerate lazily yields the regular files selected by path. Directory
// entries are visited in natural order (IMG_2 before IMG_10), files and
// sub-directories interleaved, so the order is stable between runs.
// Unreadable directories are yielded with their error.
func Enumerate(path string, opts EnumerateOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if opts.Glob {
			enumerateGlob(path, opts.Recursive, yield)
			return
		}

		info, err := os.Stat(path)
		if err != nil {
			yield(path, err)
			return
		}
		if !info.IsDir() {
			yield(path, nil)
			return
		}
		walkNatural(path, opts.Recursive, yield)
	}
}

func enumerateGlob(pattern string, recursive bool, yield func(string, error) bool) {
	var matches []string
	var err error
	if recursive {
		matches, err = doublestar.FilepathGlob(pattern)
	} else {
		matches, err = filepath.Glob(pattern)
	}
	if err != nil {
		yield(pattern, fmt.Errorf("bad glob pattern: %w", err))
		return
	}
	sortNatural(matches)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			if !yield(m, err) {
				return
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if !yield(m, nil) {
			return
		}
	}
}

// walkNatural returns false once the consumer stopped.
func walkNatural(dir string, recursive bool, yield func(string, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return yield(dir, err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return natural.Less(entries[i].Name(), entries[j].Name())
	})

	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if recursive && !walkNatural(p, recursive, yield) {
				return false
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if !yield(p, nil) {
			return false
		}
	}
	return true
}

func sortNatural(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return natural.Less(paths[i], paths[j])
	})
}
