package tools

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

// ListDirectory lists the immediate children of a directory, directories
// suffixed with "/", dotfiles excluded, optionally filtered by a regex on
// the entry name. A nonexistent directory yields an explicit error string.
func (e *Executor) ListDirectory(_ context.Context, call protocol.ListDirectoryCall) Result {
	if call.Path == "" {
		return Result{Error: "list_directory: path is required"}
	}

	var filter *regexp.Regexp
	if call.Pattern != "" {
		re, err := regexp.Compile(call.Pattern)
		if err != nil {
			return Result{Error: fmt.Sprintf("list_directory: invalid pattern %q: %s", call.Pattern, err)}
		}
		filter = re
	}

	path := e.resolve(call.Path)
	entries, err := os.ReadDir(path)
	if err != nil {
		return Result{Error: fmt.Sprintf("list_directory: cannot list %s: %s", call.Path, err)}
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if filter != nil && !filter.MatchString(name) {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return Result{Result: fmt.Sprintf("Directory %s has no matching entries", call.Path)}
	}
	return Result{Result: strings.Join(names, "\n")}
}
