package tools

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

// ReadMaxOutputBytes caps read output to keep a single huge file from
// blowing up the conversation.
const ReadMaxOutputBytes = 100_000

// Read returns 1-indexed, line-numbered file content. When the call carries
// line ranges, only those ranges are returned, clamped to the file bounds
// and concatenated in request order. A missing file is reported as an
// explicit "not found" string rather than failing the turn.
func (e *Executor) Read(_ context.Context, call protocol.ReadCall) Result {
	if call.Path == "" {
		return Result{Error: "read: path is required"}
	}

	path := e.resolve(call.Path)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return Result{Result: fmt.Sprintf("File not found: %s", call.Path)}
	}
	if err != nil {
		return Result{Error: fmt.Sprintf("read: failed to open %s: %s", call.Path, err)}
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Result{Error: fmt.Sprintf("read: error reading %s: %s", call.Path, err)}
	}

	ranges := protocol.ParseLineRanges(call.Lines)
	if ranges == nil {
		return Result{Result: capBytes(contentWithLineNumber(lines, 1))}
	}

	var sections []string
	for _, r := range ranges {
		start, end := r.Start, r.End
		if start > len(lines) {
			continue
		}
		if end > len(lines) {
			end = len(lines)
		}
		sections = append(sections, contentWithLineNumber(lines[start-1:end], start))
	}
	if len(sections) == 0 {
		return Result{Result: fmt.Sprintf("File %s has only %d lines; requested ranges are out of bounds", call.Path, len(lines))}
	}
	return Result{Result: capBytes(strings.Join(sections, "...\n"))}
}

func capBytes(s string) string {
	if len(s) <= ReadMaxOutputBytes {
		return s
	}
	return s[:ReadMaxOutputBytes] + fmt.Sprintf("\n... [truncated due to max output bytes limit of %d]", ReadMaxOutputBytes)
}
