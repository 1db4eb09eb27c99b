package searcher

import (
	"fmt"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

// systemPrompt describes the protocol to the model: the turn budget, the tag
// grammar, and the requirement that the final turn carries finish.
func systemPrompt(maxTurns int) string {
	return fmt.Sprintf(`You are a code search agent. Your job is to locate the source locations in a repository that are relevant to the user's query, using the tools below, within a budget of %d turns.

On every turn you may request tools by emitting tags in your reply. You can emit several tags in one turn; they run in parallel (at most %d per turn).

Available tools:

<grep>
<pattern>regex to search for (required)</pattern>
<sub_dir>optional directory to search under, relative to the repo root</sub_dir>
<glob>optional filename glob such as *.go</glob>
</grep>

<read>
<path>file path relative to the repo root (required)</path>
<lines>optional 1-based inclusive ranges such as 1-50,75-80; omit or use * for the whole file</lines>
</read>

<list_directory>
<path>directory path relative to the repo root (required)</path>
<pattern>optional regex filter on entry names</pattern>
</list_directory>

When you have located the relevant code, finish the search:

<finish>
<file><path>path/to/file</path><lines>optional ranges</lines></file>
<file><path>another/file</path></file>
</finish>

Rules:
- Tool results come back in the next user message inside matching *_result tags.
- You MUST emit <finish> no later than turn %d. A turn without any tags wastes budget.
- Once you emit <finish>, no other tool calls in the same reply are executed.
- Any text outside tags is kept as your notes but is not acted on.`, maxTurns, protocol.MaxParallelCalls, maxTurns)
}

// initialMessage pairs the query with a bounded tree of the repository so
// the model has orientation before its first tool call.
func initialMessage(query, tree string) string {
	return fmt.Sprintf(`Query: %s

Repository structure:
%s

Begin your search.`, query, tree)
}

// nudgeMessage is appended when a turn produced no parseable tags.
const nudgeMessage = `Your previous reply contained no tool calls. Use <grep>, <read> or <list_directory> to keep searching, or emit <finish> with the relevant files if you are done.`
