// Package tools executes the read-only search primitives (grep, read,
// list_directory) against a repository root. Every operation is bounded and
// non-throwing: all failure modes surface as human-readable result text that
// is fed back into the conversation so the model can self-correct.
package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

// Result carries the outcome of one tool invocation. Exactly one of Result
// or Error is expected to be set; both are plain text destined for the
// conversation, never Go errors.
type Result struct {
	Result string
	Error  string
}

// Text renders the result for the feedback message. Errors take precedence.
func (r Result) Text() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Result
}

// Executor runs tool calls against a single repository root. It holds no
// mutable state, so one executor may serve concurrent calls.
type Executor struct {
	root string
}

// NewExecutor validates the repository root and returns an executor bound to
// it. An unreachable root is a configuration error and is reported here,
// before any search turn runs.
func NewExecutor(root string) (*Executor, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid repository root %q", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "repository root %q is not accessible", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("repository root %q is not a directory", root)
	}
	return &Executor{root: abs}, nil
}

// Root returns the absolute repository root.
func (e *Executor) Root() string {
	return e.root
}

// Run dispatches a parsed call to the matching tool. Finish calls are not
// executable; asking for one is a caller bug surfaced as result text like
// any other tool failure.
func (e *Executor) Run(ctx context.Context, call protocol.Call) Result {
	switch c := call.(type) {
	case protocol.GrepCall:
		return e.Grep(ctx, c)
	case protocol.ReadCall:
		return e.Read(ctx, c)
	case protocol.ListDirectoryCall:
		return e.ListDirectory(ctx, c)
	default:
		return Result{Error: fmt.Sprintf("tool %q is not executable", call.Tag())}
	}
}

// resolve maps a model-supplied path onto the repository root. Absolute
// paths are used as given since grep results may echo them back.
func (e *Executor) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(e.root, path)
}
