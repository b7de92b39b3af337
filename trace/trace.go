// Copyright © 2024 The ELPS authors

// Package trace locates the application frame in a textual diagnostic trace.
//
// A trace is a block of text with one frame per line, most recent call first.
// Two frame shapes are understood: the parenthesized suffix used by
// JavaScript-style traces, "at fn (/app/x.js:10:3)", and the file line of a Go
// runtime trace, "\t/app/x.go:10 +0x1d". Lines of any other shape are
// ignored.
package trace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	parenFramePattern = regexp.MustCompile(`\((.*?):(\d+):\d+\)$`)
	goFramePattern    = regexp.MustCompile(`^\s+(\S.*?\.go):(\d+)(?: \+0x[0-9a-f]+)?$`)
)

// Frame is one parseable entry of a trace.
type Frame struct {
	Raw  string // the trace line the frame was parsed from
	File string
	Line int
}

// Location identifies a line in a source file. The zero Location means the
// location is unknown.
type Location struct {
	File string
	Line int
}

// IsZero reports whether the location is unknown.
func (loc Location) IsZero() bool {
	return loc.File == ""
}

func (loc Location) String() string {
	if loc.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", loc.File, loc.Line)
}

// ParseFrame extracts the file and line from a single trace line.
func ParseFrame(line string) (Frame, bool) {
	line = strings.TrimRight(line, "\r")
	m := parenFramePattern.FindStringSubmatch(line)
	if m == nil {
		m = goFramePattern.FindStringSubmatch(line)
	}
	if m == nil {
		return Frame{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		// line number overflows int
		return Frame{}, false
	}
	return Frame{Raw: line, File: m[1], Line: n}, true
}

// Frames returns every parseable frame in stack, in order.
func Frames(stack string) []Frame {
	var frames []Frame
	for _, line := range strings.Split(stack, "\n") {
		if f, ok := ParseFrame(line); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

// Locator finds the first application frame of a trace.
type Locator struct {
	// IsAppCode classifies frame files. If nil, DefaultAppCode is used.
	IsAppCode AppCodeFunc
}

// Locate scans stack top to bottom and returns the location of the first
// frame whose file is application code. The line number is returned exactly
// as it appears in the trace. If no frame qualifies the zero Location is
// returned.
func (l *Locator) Locate(stack string) Location {
	isApp := l.IsAppCode
	if isApp == nil {
		isApp = DefaultAppCode
	}
	for _, line := range strings.Split(stack, "\n") {
		f, ok := ParseFrame(line)
		if !ok {
			continue
		}
		if isApp(f.File) {
			return Location{File: f.File, Line: f.Line}
		}
	}
	return Location{}
}

// Locate is shorthand for a Locator using DefaultAppCode.
func Locate(stack string) Location {
	var l Locator
	return l.Locate(stack)
}
