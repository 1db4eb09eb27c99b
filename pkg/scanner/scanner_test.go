package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, path := range paths {
		full := filepath.Join(root, path)
		if strings.HasSuffix(path, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	return root
}

func TestScan_ListsDirsBeforeFiles(t *testing.T) {
	root := makeTree(t, "zeta.go", "alpha/", "beta/")

	tree, err := Scan(root)
	require.NoError(t, err)

	lines := strings.Split(tree, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "alpha/", lines[0])
	assert.Equal(t, "beta/", lines[1])
	assert.Equal(t, "zeta.go", lines[2])
}

func TestScan_IndentsByDepth(t *testing.T) {
	root := makeTree(t, "a/b/c.go")

	tree, err := Scan(root)
	require.NoError(t, err)
	assert.Contains(t, tree, "a/")
	assert.Contains(t, tree, "  b/")
	assert.Contains(t, tree, "    c.go")
}

func TestScan_RespectsMaxDepth(t *testing.T) {
	root := makeTree(t, "a/b/c/d/e.go")

	tree, err := ScanDepth(root, 2)
	require.NoError(t, err)
	assert.Contains(t, tree, "a/")
	assert.Contains(t, tree, "  b/")
	assert.NotContains(t, tree, "c/")
}

func TestScan_SkipsDotfilesAndNoiseDirs(t *testing.T) {
	root := makeTree(t,
		"src/ok.go",
		".git/config",
		".env",
		"node_modules/dep/index.js",
		"__pycache__/m.pyc",
		"dist/bundle.js",
		"build/out",
	)

	tree, err := Scan(root)
	require.NoError(t, err)
	assert.Contains(t, tree, "src/")
	assert.NotContains(t, tree, ".git")
	assert.NotContains(t, tree, ".env")
	assert.NotContains(t, tree, "node_modules")
	assert.NotContains(t, tree, "__pycache__")
	assert.NotContains(t, tree, "dist")
	assert.NotContains(t, tree, "build")
}

func TestScan_CapsEntriesPerDirectory(t *testing.T) {
	paths := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		paths = append(paths, fmt.Sprintf("file%02d.txt", i))
	}
	root := makeTree(t, paths...)

	tree, err := Scan(root)
	require.NoError(t, err)

	lines := strings.Split(tree, "\n")
	assert.Len(t, lines, maxEntriesPerDir+1)
	assert.Equal(t, "...", lines[len(lines)-1])
}

func TestScan_CapsTotalOutputLines(t *testing.T) {
	paths := make([]string, 0, 200)
	for i := 0; i < 15; i++ {
		for j := 0; j < 15; j++ {
			paths = append(paths, fmt.Sprintf("dir%02d/file%02d.txt", i, j))
		}
	}
	root := makeTree(t, paths...)

	tree, err := Scan(root)
	require.NoError(t, err)

	lines := strings.Split(tree, "\n")
	assert.LessOrEqual(t, len(lines), maxOutputLines)
	assert.Equal(t, "... (tree truncated)", lines[len(lines)-1])
}

func TestScan_SymlinkCycleTerminates(t *testing.T) {
	root := makeTree(t, "a/file.txt")
	err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "a", "loop"))
	if err != nil {
		t.Skip("symlinks not supported on this platform")
	}

	tree, scanErr := Scan(root)
	require.NoError(t, scanErr)
	assert.Contains(t, tree, "a/")
}

func TestScan_NonexistentRoot(t *testing.T) {
	_, err := Scan("/no/such/root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot scan repository root")
}
