package searcher

import (
	"context"
	"fmt"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

// aggregate resolves the finish file list into concrete contexts by
// re-reading each file with its requested ranges. Entries stay in request
// order and duplicates are kept: overlapping ranges may be deliberate.
// An empty file list is a vacuous success with zero contexts.
func (s *Searcher) aggregate(ctx context.Context, finish protocol.FinishCall, turns int) *Result {
	contexts := make([]Context, 0, len(finish.Files))
	for _, file := range finish.Files {
		result := s.executor.Read(ctx, protocol.ReadCall{Path: file.Path, Lines: file.Lines})
		contexts = append(contexts, Context{
			File:    file.Path,
			Content: result.Text(),
			Lines:   file.Lines,
		})
	}

	return &Result{
		Success:  true,
		Contexts: contexts,
		Summary:  fmt.Sprintf("Found %d relevant section(s) in %d turn(s)", len(contexts), turns),
		Turns:    turns,
	}
}
