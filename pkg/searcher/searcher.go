// Package searcher owns the turn-bounded conversation loop that drives a
// model through the tag protocol to locate relevant source locations.
// Termination is structural: the loop runs at most MaxTurns model calls no
// matter how the model behaves.
package searcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/warpgrep/warpgrep/pkg/llm"
	"github.com/warpgrep/warpgrep/pkg/logger"
	"github.com/warpgrep/warpgrep/pkg/protocol"
	"github.com/warpgrep/warpgrep/pkg/scanner"
	"github.com/warpgrep/warpgrep/pkg/tools"
)

// MaxTurns is the default turn budget for one search session.
const MaxTurns = 4

// Config configures a Searcher.
type Config struct {
	// RepoRoot is the repository to search. Must exist.
	RepoRoot string
	// Client is the model client used for every turn.
	Client llm.Client
	// MaxTurns overrides the default turn budget when positive.
	MaxTurns int
	// Debug enables verbose per-turn logging. It never alters control flow.
	Debug bool
}

// Searcher runs search sessions against one repository. It holds no
// per-session state, so a single Searcher may serve concurrent searches.
type Searcher struct {
	client   llm.Client
	executor *tools.Executor
	maxTurns int
	debug    bool
}

// Context is one resolved file section in a search result.
type Context struct {
	File    string `json:"file"`
	Content string `json:"content"`
	Lines   string `json:"lines,omitempty"`
}

// Result is the terminal outcome of one search session. Exactly one of
// (Contexts+Summary) or Error is populated.
type Result struct {
	Success  bool      `json:"success"`
	Contexts []Context `json:"contexts,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Error    string    `json:"error,omitempty"`
	Turns    int       `json:"turns"`
}

// New validates the configuration and returns a Searcher. An unreachable
// repository root or a missing client is reported here, with zero turns
// consumed.
func New(config Config) (*Searcher, error) {
	if config.Client == nil {
		return nil, errors.New("model client is required")
	}
	executor, err := tools.NewExecutor(config.RepoRoot)
	if err != nil {
		return nil, err
	}
	maxTurns := config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = MaxTurns
	}
	return &Searcher{
		client:   config.Client,
		executor: executor,
		maxTurns: maxTurns,
		debug:    config.Debug,
	}, nil
}

// Search runs one session: scan the repo, then loop model call -> parse ->
// execute -> feedback until the model finishes or the budget runs out. The
// caller always receives a structured result; Search never panics and never
// returns an error.
func (s *Searcher) Search(ctx context.Context, query string) *Result {
	log := logger.G(ctx).WithField("session_id", uuid.NewString())
	if s.debug {
		// Session-scoped logger: debug verbosity must not leak into
		// concurrent sessions through the global logger.
		debugLogger := logrus.New()
		debugLogger.SetLevel(logrus.DebugLevel)
		debugLogger.SetFormatter(log.Logger.Formatter)
		debugLogger.SetOutput(log.Logger.Out)
		log = debugLogger.WithFields(log.Data)
	}
	ctx = logger.WithLogger(ctx, log)

	tree, err := scanner.Scan(s.executor.Root())
	if err != nil {
		return &Result{Error: err.Error(), Turns: 0}
	}

	system := systemPrompt(s.maxTurns)
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: initialMessage(query, tree)},
	}

	for turn := 1; turn <= s.maxTurns; turn++ {
		log.WithField("turn", turn).Debug("sending message history to model")

		reply, err := s.client.SendMessage(ctx, system, messages)
		if err != nil {
			// Transport failures are fatal: no local recovery makes the
			// next turn any more likely to succeed.
			log.WithError(err).WithField("turn", turn).Error("model call failed")
			return &Result{Error: errors.Wrap(err, "model call failed").Error(), Turns: turn}
		}

		// The literal output is preserved in history, reasoning text and all.
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: reply})

		calls := protocol.ParseCalls(reply)
		if finish, ok := firstFinish(calls); ok {
			// finish wins over any other calls in the same output.
			log.WithFields(logrus.Fields{"turn": turn, "files": len(finish.Files)}).Debug("finish received")
			return s.aggregate(ctx, finish, turn)
		}

		if len(calls) == 0 {
			// Models often open with commentary only; nudge instead of
			// failing so the remaining budget is not wasted.
			log.WithField("turn", turn).Debug("no tool calls parsed, nudging")
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: nudgeMessage})
			continue
		}

		feedback := s.runCalls(ctx, calls)
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: feedback})
	}

	return &Result{
		Error: fmt.Sprintf("search did not complete within %d turns", s.maxTurns),
		Turns: s.maxTurns,
	}
}

// runCalls fans the turn's calls out concurrently and collects the rendered
// results in parse order, so conversation history stays reproducible
// regardless of completion order.
func (s *Searcher) runCalls(ctx context.Context, calls []protocol.Call) string {
	log := logger.G(ctx)
	rendered := make([]string, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			log.WithField("tool", call.Tag()).Debug("executing tool call")
			rendered[i] = renderResult(call, s.executor.Run(gctx, call))
			return nil
		})
	}
	_ = g.Wait() // tool execution never returns errors

	return strings.Join(rendered, "\n\n")
}

// renderResult wraps a tool result in a tagged block mirroring the request,
// with enough attribution for the model to pair parallel results back up.
func renderResult(call protocol.Call, result tools.Result) string {
	var attr string
	switch c := call.(type) {
	case protocol.GrepCall:
		attr = fmt.Sprintf(" pattern=%q", c.Pattern)
	case protocol.ReadCall:
		attr = fmt.Sprintf(" path=%q", c.Path)
	case protocol.ListDirectoryCall:
		attr = fmt.Sprintf(" path=%q", c.Path)
	}
	tag := call.Tag() + "_result"
	return fmt.Sprintf("<%s%s>\n%s\n</%s>", tag, attr, result.Text(), tag)
}

func firstFinish(calls []protocol.Call) (protocol.FinishCall, bool) {
	for _, call := range calls {
		if finish, ok := call.(protocol.FinishCall); ok {
			return finish, true
		}
	}
	return protocol.FinishCall{}, false
}
