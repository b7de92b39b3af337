// Copyright © 2024 The ELPS authors

// Package snippet extracts a window of source lines around a faulting line.
package snippet

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// Radius is the number of lines taken on either side of the target line.
const Radius = 5

// ErrNoSource is returned when there is no source file to read.
var ErrNoSource = errors.New("snippet: no source file")

var lineBreak = regexp.MustCompile(`\r?\n`)

// Line is one line of a snippet.
type Line struct {
	Number int    `json:"number"` // absolute index of the line in its file
	Error  bool   `json:"error"`  // the faulting line
	Code   string `json:"code"`
}

// SplitLines splits text on "\n" and "\r\n".
func SplitLines(text string) []string {
	return lineBreak.Split(text, -1)
}

// Window returns lines[max(0, target-Radius) : min(len(lines), target+Radius)]
// as snippet lines. The line whose index equals target is flagged. Only the
// first tab of each line is expanded to four spaces.
func Window(lines []string, target int) []Line {
	start := max(0, target-Radius)
	stop := min(len(lines), target+Radius)
	if start >= stop {
		return nil
	}
	out := make([]Line, 0, stop-start)
	for i, code := range lines[start:stop] {
		n := start + i
		out = append(out, Line{
			Number: n,
			Error:  n == target,
			Code:   strings.Replace(code, "\t", "    ", 1),
		})
	}
	return out
}

// Extractor reads source files and cuts snippets from them.
type Extractor struct {
	// Fs is the filesystem source files are read from. If nil, the OS
	// filesystem is used.
	Fs afero.Fs
}

func (e *Extractor) fs() afero.Fs {
	if e == nil || e.Fs == nil {
		return afero.NewOsFs()
	}
	return e.Fs
}

// Extract reads path and returns the snippet around target.
func (e *Extractor) Extract(ctx context.Context, path string, target int) ([]Line, error) {
	if path == "" {
		return nil, ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := afero.ReadFile(e.fs(), path)
	if err != nil {
		return nil, fmt.Errorf("snippet: %w", err)
	}
	return Window(SplitLines(string(b)), target), nil
}
