package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

func TestRead_WholeFile(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})

	result := executor.Read(context.Background(), protocol.ReadCall{Path: "main.go"})
	require.Empty(t, result.Error)
	assert.Contains(t, result.Result, "1: package main")
	assert.Contains(t, result.Result, "3: func main() {}")
}

func TestRead_StarMeansWholeFile(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"main.go": "one\ntwo\n",
	})

	result := executor.Read(context.Background(), protocol.ReadCall{Path: "main.go", Lines: "*"})
	require.Empty(t, result.Error)
	assert.Contains(t, result.Result, "1: one")
	assert.Contains(t, result.Result, "2: two")
}

func TestRead_LineRanges(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"ten.txt": "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n",
	})

	result := executor.Read(context.Background(), protocol.ReadCall{Path: "ten.txt", Lines: "2-3,8-9"})
	require.Empty(t, result.Error)
	assert.Contains(t, result.Result, "2: l2")
	assert.Contains(t, result.Result, "3: l3")
	assert.Contains(t, result.Result, "8: l8")
	assert.Contains(t, result.Result, "9: l9")
	assert.NotContains(t, result.Result, "5: l5")
}

func TestRead_RangesKeepRequestOrder(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"ten.txt": "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n",
	})

	result := executor.Read(context.Background(), protocol.ReadCall{Path: "ten.txt", Lines: "8-9,2-3"})
	require.Empty(t, result.Error)
	assert.Less(t, strings.Index(result.Result, "8: l8"), strings.Index(result.Result, "2: l2"))
}

func TestRead_OutOfRangeClampsToFileBounds(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"short.txt": "a\nb\nc\n",
	})

	result := executor.Read(context.Background(), protocol.ReadCall{Path: "short.txt", Lines: "2-100"})
	require.Empty(t, result.Error)
	assert.Contains(t, result.Result, "2: b")
	assert.Contains(t, result.Result, "3: c")
	assert.NotContains(t, result.Result, "4:")
}

func TestRead_RangeEntirelyPastEOF(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"short.txt": "a\nb\n",
	})

	result := executor.Read(context.Background(), protocol.ReadCall{Path: "short.txt", Lines: "50-60"})
	require.Empty(t, result.Error)
	assert.Contains(t, result.Result, "out of bounds")
}

func TestRead_MissingFileIsNotFatal(t *testing.T) {
	executor := newTestRepo(t, nil)

	result := executor.Read(context.Background(), protocol.ReadCall{Path: "no/such/file.go"})
	assert.Empty(t, result.Error)
	assert.Contains(t, result.Result, "File not found: no/such/file.go")
}

func TestRead_MissingPath(t *testing.T) {
	executor := newTestRepo(t, nil)
	result := executor.Read(context.Background(), protocol.ReadCall{})
	assert.Contains(t, result.Error, "path is required")
}

func TestRead_Idempotent(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"main.go": "package main\nfunc main() {}\n",
	})

	call := protocol.ReadCall{Path: "main.go", Lines: "1-2"}
	first := executor.Read(context.Background(), call)
	second := executor.Read(context.Background(), call)
	assert.Equal(t, first, second)
}
