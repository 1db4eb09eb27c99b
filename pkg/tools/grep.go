package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

const (
	// GrepMaxOutputLines caps the total grep output so a broad pattern
	// cannot flood the conversation.
	GrepMaxOutputLines = 150

	// GrepTimeout bounds a single search so a slow filesystem walk cannot
	// stall the turn budget.
	GrepTimeout = 10 * time.Second

	grepContextLines = 1
	grepMaxLineChars = 300

	grepTruncationNotice = "\n[output truncated at %d lines - refine your pattern or narrow the search with sub_dir/glob]"
)

// Grep searches the repository for a regex pattern, rooted at sub_dir when
// given. Matching lines are reported with 1-based line numbers and one line
// of surrounding context. Zero matches is a valid, non-error outcome.
func (e *Executor) Grep(ctx context.Context, call protocol.GrepCall) Result {
	if call.Pattern == "" {
		return Result{Error: "grep: pattern is required"}
	}
	re, err := regexp.Compile(call.Pattern)
	if err != nil {
		return Result{Error: fmt.Sprintf("grep: invalid regex %q: %s", call.Pattern, err)}
	}

	searchRoot := e.root
	if call.SubDir != "" {
		searchRoot = e.resolve(call.SubDir)
		info, err := os.Stat(searchRoot)
		if err != nil {
			return Result{Error: fmt.Sprintf("grep: sub_dir %q is not accessible: %s", call.SubDir, err)}
		}
		if !info.IsDir() {
			return Result{Error: fmt.Sprintf("grep: sub_dir %q is not a directory", call.SubDir)}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, GrepTimeout)
	defer cancel()

	var out []string
	truncated := false

	walkErr := filepath.WalkDir(searchRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if path != searchRoot && (strings.HasPrefix(name, ".") || noiseDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if call.Glob != "" && !matchesGlob(call.Glob, searchRoot, path, name) {
			return nil
		}
		if isBinaryFile(path) {
			return nil
		}

		rel, err := filepath.Rel(e.root, path)
		if err != nil {
			rel = path
		}
		hunks := grepFile(re, path, rel)
		for _, line := range hunks {
			if len(out) >= GrepMaxOutputLines {
				truncated = true
				return filepath.SkipAll
			}
			out = append(out, line)
		}
		return nil
	})

	if walkErr != nil && ctx.Err() != nil {
		return Result{Error: fmt.Sprintf("grep: search timed out after %s", GrepTimeout)}
	}

	if len(out) == 0 {
		return Result{Result: fmt.Sprintf("No matches found for pattern %q", call.Pattern)}
	}

	result := strings.Join(out, "\n")
	if truncated {
		result += fmt.Sprintf(grepTruncationNotice, GrepMaxOutputLines)
	}
	return Result{Result: result}
}

// matchesGlob matches the file against the glob by base name first, then by
// path relative to the search root so patterns like "src/**/*.go" work too.
func matchesGlob(pattern, searchRoot, path, name string) bool {
	if ok, err := doublestar.Match(pattern, name); err == nil && ok {
		return true
	}
	rel, err := filepath.Rel(searchRoot, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// grepFile returns grep-style output lines for one file: "path:N: text" for
// matches, "path-N- text" for context lines, hunks separated by "--".
func grepFile(re *regexp.Regexp, path, rel string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if scanner.Err() != nil {
		return nil
	}

	var matched []int
	for i, line := range lines {
		if re.MatchString(line) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	isMatch := make(map[int]bool, len(matched))
	for _, i := range matched {
		isMatch[i] = true
	}

	var out []string
	lastEmitted := -2
	for _, m := range matched {
		start := m - grepContextLines
		if start < 0 {
			start = 0
		}
		end := m + grepContextLines
		if end > len(lines)-1 {
			end = len(lines) - 1
		}
		if start <= lastEmitted {
			start = lastEmitted + 1
		} else if len(out) > 0 {
			out = append(out, "--")
		}
		for i := start; i <= end; i++ {
			text := lines[i]
			if len(text) > grepMaxLineChars {
				text = text[:grepMaxLineChars] + "... [truncated]"
			}
			if isMatch[i] {
				out = append(out, fmt.Sprintf("%s:%d: %s", rel, i+1, text))
			} else {
				out = append(out, fmt.Sprintf("%s-%d- %s", rel, i+1, text))
			}
		}
		lastEmitted = end
	}
	return out
}
