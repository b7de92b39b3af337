// Copyright © 2024 The ELPS authors

// Package errorpagetest provides helpers for testing code that renders error
// pages.
package errorpagetest

import (
	"testing"

	"github.com/luthersystems/errorpage/snippet"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SourceFs returns an in-memory filesystem holding files, keyed by path.
func SourceFs(t testing.TB, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, src := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(src), 0o644), "write %s", name)
	}
	return fs
}

// AssertSnippet checks that lines is the snippet of a file with total lines
// around target:
//
//	lines are consecutive and numbered from max(0, target-snippet.Radius)
//
//	there are min(total, target+snippet.Radius) - max(0, target-snippet.Radius)
//	of them, or none if that is not positive
//
//	exactly the line numbered target is flagged, if it is present
func AssertSnippet(t testing.TB, lines []snippet.Line, total, target int) bool {
	t.Helper()
	start := max(0, target-snippet.Radius)
	want := max(0, min(total, target+snippet.Radius)-start)
	ok := assert.Len(t, lines, want, "snippet size for target %d of %d lines", target, total)
	for i, l := range lines {
		ok = assert.Equal(t, start+i, l.Number, "line number") && ok
		ok = assert.Equal(t, l.Number == target, l.Error, "error flag on line %d", l.Number) && ok
	}
	return ok
}
