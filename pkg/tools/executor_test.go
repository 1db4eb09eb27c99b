package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpgrep/warpgrep/pkg/protocol"
)

func TestNewExecutor_NonexistentRoot(t *testing.T) {
	_, err := NewExecutor("/no/such/repo/root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestNewExecutor_RootIsAFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewExecutor(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestRun_DispatchesByCallType(t *testing.T) {
	executor := newTestRepo(t, map[string]string{
		"main.go": "package main\n",
	})
	ctx := context.Background()

	grep := executor.Run(ctx, protocol.GrepCall{Pattern: "package"})
	assert.Contains(t, grep.Result, "main.go")

	read := executor.Run(ctx, protocol.ReadCall{Path: "main.go"})
	assert.Contains(t, read.Result, "1: package main")

	list := executor.Run(ctx, protocol.ListDirectoryCall{Path: "."})
	assert.Contains(t, list.Result, "main.go")
}

func TestRun_FinishIsNotExecutable(t *testing.T) {
	executor := newTestRepo(t, nil)
	result := executor.Run(context.Background(), protocol.FinishCall{})
	assert.Contains(t, result.Error, "not executable")
}

func TestResult_TextPrefersError(t *testing.T) {
	assert.Equal(t, "boom", Result{Result: "ok", Error: "boom"}.Text())
	assert.Equal(t, "ok", Result{Result: "ok"}.Text())
}
