// Copyright © 2024 The ELPS authors

package cmd

import (
	"strings"

	"github.com/luthersystems/errorpage/diagnostic"
	"github.com/luthersystems/errorpage/trace"
	"github.com/spf13/afero"
)

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(colorFlag)
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer(fs afero.Fs, width uint) *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode(), Fs: fs, Width: width}
}

// traceMessage returns the first non-blank line of a trace, which by
// convention states the error.
func traceMessage(stack string) string {
	for _, line := range strings.Split(stack, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "empty trace"
}

// traceToDiagnostic converts a trace and the location found in it to a
// Diagnostic for display. loc.Line is a 0-based index, as reported by
// errorpage.Handler.Locate.
func traceToDiagnostic(source, stack string, loc trace.Location) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  traceMessage(stack),
	}
	if loc.IsZero() {
		d.Severity = diagnostic.SeverityWarning
		d.Notes = append(d.Notes, "no application frame found in "+source)
	} else {
		d.Spans = append(d.Spans, diagnostic.Span{
			File:  loc.File,
			Line:  loc.Line + 1,
			Label: "first application frame",
		})
	}
	for _, f := range trace.Frames(stack) {
		d.Notes = append(d.Notes, strings.TrimSpace(f.Raw))
	}
	return d
}
