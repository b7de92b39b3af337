// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/luthersystems/errorpage/snippet"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/afero"
)

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// Fs is the filesystem source files are read from. If nil, the OS
	// filesystem is used.
	Fs afero.Fs

	// Width wraps messages and notes at this many columns. Zero disables
	// wrapping.
	Width uint
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, r.wrapNote(note))
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) wrap(s string) string {
	if r.Width == 0 {
		return s
	}
	return wordwrap.String(s, int(r.Width))
}

// wrapNote wraps a note and indents its continuation lines under the text
// of the first line.
func (r *Renderer) wrapNote(note string) string {
	const prefix = len("   = note: ")
	if r.Width <= uint(prefix) {
		return note
	}
	wrapped := wordwrap.String(note, int(r.Width)-prefix)
	first, rest, ok := strings.Cut(wrapped, "\n")
	if !ok {
		return first
	}
	return first + "\n" + indent.String(rest, uint(prefix))
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	var sevColor string
	switch d.Severity {
	case SeverityError:
		sevColor = p.boldRed
	case SeverityWarning:
		sevColor = p.yellow
	case SeverityNote:
		sevColor = p.boldCyan
	}
	ew.printf("%s%s%s%s: %s%s%s\n",
		sevColor, p.bold, d.Severity, p.reset,
		p.bold, r.wrap(d.Message), p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
	}
	if span.Label != "" {
		loc += " " + span.Label
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	lines := r.readSnippet(span)
	if len(lines) == 0 {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	width := len(strconv.Itoa(lines[len(lines)-1].Number + 1))
	pad := strings.Repeat(" ", width)
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	for _, l := range lines {
		num := fmt.Sprintf("%*d", width, l.Number+1)
		if l.Error {
			ew.printf(" %s%s >%s  %s%s%s\n", p.boldRed, num, p.reset, p.bold, l.Code, p.reset)
			continue
		}
		ew.printf(" %s%s |%s  %s\n", p.boldBlue, num, p.reset, l.Code)
	}
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSnippet(span Span) []snippet.Line {
	if span.Line <= 0 || span.File == "" {
		return nil
	}
	e := snippet.Extractor{Fs: r.Fs}
	lines, err := e.Extract(context.Background(), span.File, span.Line-1)
	if err != nil {
		return nil
	}
	return lines
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
