// Package protocol defines the text-level tool-call contract between the
// orchestrator and the model: the tag grammar the model writes, the typed
// calls extracted from it, and the best-effort parser that does the
// extraction. Parsing is total — malformed input yields fewer calls, never
// an error.
package protocol

import (
	"strconv"
	"strings"
)

// Call is one tool invocation requested by the model.
type Call interface {
	// Tag returns the tag family the call was parsed from.
	Tag() string
}

// GrepCall requests a regex search over the repository.
type GrepCall struct {
	Pattern string
	SubDir  string
	Glob    string
}

// Tag implements Call.
func (GrepCall) Tag() string { return "grep" }

// ReadCall requests file content, optionally restricted to line ranges.
// Lines holds the raw range spec as written by the model ("1-50,75-80",
// "*", or empty for the whole file).
type ReadCall struct {
	Path  string
	Lines string
}

// Tag implements Call.
func (ReadCall) Tag() string { return "read" }

// ListDirectoryCall requests the immediate children of a directory,
// optionally filtered by a regex on the entry name.
type ListDirectoryCall struct {
	Path    string
	Pattern string
}

// Tag implements Call.
func (ListDirectoryCall) Tag() string { return "list_directory" }

// FileRequest names one file (and optional line ranges) in a finish call.
type FileRequest struct {
	Path  string
	Lines string
}

// FinishCall declares the search complete and names the relevant contexts.
// An empty Files list is valid; callers decide what it means.
type FinishCall struct {
	Files []FileRequest
}

// Tag implements Call.
func (FinishCall) Tag() string { return "finish" }

// LineRange is a 1-based inclusive range of lines.
type LineRange struct {
	Start int
	End   int
}

// ParseLineRanges parses a range spec such as "1-50,75-80" or "12" into
// ordered ranges. An empty spec or "*" means the whole file and yields nil.
// Malformed or inverted segments are dropped rather than failing the parse.
func ParseLineRanges(spec string) []LineRange {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "*" {
		return nil
	}

	var ranges []LineRange
	for _, seg := range strings.Split(spec, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		start, end := seg, seg
		if dash := strings.Index(seg, "-"); dash >= 0 {
			start, end = strings.TrimSpace(seg[:dash]), strings.TrimSpace(seg[dash+1:])
		}

		lo, err := strconv.Atoi(start)
		if err != nil {
			continue
		}
		hi, err := strconv.Atoi(end)
		if err != nil {
			continue
		}
		if lo < 1 || hi < lo {
			continue
		}
		ranges = append(ranges, LineRange{Start: lo, End: hi})
	}
	return ranges
}
