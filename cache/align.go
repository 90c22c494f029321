package cache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Align pairs source and target lines by position into a phrase mapping.
// Blank lines are dropped from both sides before pairing and source keys are
// normalized. A later duplicate key overwrites an earlier one.
func Align(sourceLines, targetLines []string) (map[string]string, error) {
	src := nonBlank(sourceLines)
	dst := nonBlank(targetLines)

	if len(src) != len(dst) {
		return nil, fmt.Errorf("line count mismatch: %d source lines, %d target lines", len(src), len(dst))
	}

	out := make(map[string]string, len(src))
	for i := range src {
		out[strings.ToLower(src[i])] = dst[i]
	}
	return out, nil
}

// AlignFiles reads two parallel text files and aligns them.
func AlignFiles(sourcePath, targetPath string) (map[string]string, error) {
	src, err := readLines(sourcePath)
	if err != nil {
		return nil, err
	}
	dst, err := readLines(targetPath)
	if err != nil {
		return nil, err
	}
	return Align(src, dst)
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return scanLines(f)
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
