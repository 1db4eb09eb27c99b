// Package scanner produces a bounded textual tree of a repository, giving
// the model initial orientation without reading any files. Output is capped
// in depth, entries per directory, and total lines so it stays prompt-sized
// regardless of repository size.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultMaxDepth is the directory depth scanned when none is given.
	DefaultMaxDepth = 3

	maxEntriesPerDir = 20
	maxOutputLines   = 100
)

var skipDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".git":         true,
}

// Scan walks the repository root to DefaultMaxDepth and returns an indented,
// newline-delimited listing. It is a pure function of the filesystem at call
// time: no caching, no side effects.
func Scan(root string) (string, error) {
	return ScanDepth(root, DefaultMaxDepth)
}

// ScanDepth is Scan with an explicit maximum depth.
func ScanDepth(root string, maxDepth int) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, "invalid repository root %q", root)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return "", errors.Wrapf(err, "cannot scan repository root %q", root)
	}

	visited := map[string]bool{}
	lines := walk(abs, 0, maxDepth, visited)
	if len(lines) > maxOutputLines {
		lines = lines[:maxOutputLines]
		lines = append(lines[:maxOutputLines-1], "... (tree truncated)")
	}
	return strings.Join(lines, "\n"), nil
}

func walk(dir string, depth, maxDepth int, visited map[string]bool) []string {
	if depth >= maxDepth {
		return nil
	}

	// Dedupe on the resolved path to guard against symlink cycles.
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	if visited[resolved] {
		return nil
	}
	visited[resolved] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var dirs, files []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || skipDirs[name] {
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, name)
		} else {
			files = append(files, name)
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	indent := strings.Repeat("  ", depth)
	var lines []string
	emitted := 0
	for _, name := range dirs {
		if emitted >= maxEntriesPerDir {
			lines = append(lines, indent+"...")
			return lines
		}
		lines = append(lines, indent+name+"/")
		emitted++
		lines = append(lines, walk(filepath.Join(dir, name), depth+1, maxDepth, visited)...)
	}
	for _, name := range files {
		if emitted >= maxEntriesPerDir {
			lines = append(lines, indent+"...")
			return lines
		}
		lines = append(lines, indent+name)
		emitted++
	}
	return lines
}
