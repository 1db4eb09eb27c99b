package tools

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// noiseDirs are directories never worth searching.
var noiseDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".git":         true,
}

// contentWithLineNumber formats lines prefixed with their 1-based line
// number starting from offset, padded for alignment.
func contentWithLineNumber(lines []string, offset int) string {
	var sb strings.Builder
	maxLineWidth := 1

	if len(lines) > 0 {
		maxLineNum := offset + len(lines) - 1
		maxLineWidth = len(strconv.Itoa(maxLineNum))
	}

	for i, line := range lines {
		fmt.Fprintf(&sb, "%*d: %s\n", maxLineWidth, offset+i, line)
	}

	return sb.String()
}

// isBinaryFile sniffs the first 512 bytes for NUL bytes.
func isBinaryFile(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil {
		return false
	}

	for _, b := range buf[:n] {
		if b == 0 {
			return true
		}
	}

	return false
}
