// Package stacktrace shortens goroutine dumps to the frames that belong to this module.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

// InternalFrames returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that points into an internal package, outermost call last.
func InternalFrames(stack []byte) []string {
	var frames []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		// file lines look like "/src/app/internal/x/y.go:42 +0x1d"
		file, _, _ := strings.Cut(line, " ")
		if !strings.Contains(file, ".go:") {
			continue
		}
		idx := strings.Index(file, "/internal/")
		if idx == -1 {
			continue
		}
		frames = append(frames, file[idx+1:])
	}

	return frames
}
