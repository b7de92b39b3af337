// Copyright © 2024 The ELPS authors

package cmd

import (
	"testing"

	"github.com/luthersystems/errorpage/errorpagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandArgs_PassThrough(t *testing.T) {
	fs := errorpagetest.SourceFs(t, nil)
	got, err := expandArgs(fs, []string{"a.log", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log", "b"}, got)
}

func TestExpandArgs_Recursive(t *testing.T) {
	fs := errorpagetest.SourceFs(t, map[string]string{
		"/logs/api.log":           "x",
		"/logs/old/panic.trace":   "x",
		"/logs/old/notes.md":      "x",
		"/logs/worker/stderr.txt": "x",
		"/other/skip.log":         "x",
	})
	got, err := expandArgs(fs, []string{"/logs/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{"/logs/api.log", "/logs/old/panic.trace", "/logs/worker/stderr.txt"}, got)
}

func TestExpandArgs_MissingDir(t *testing.T) {
	fs := errorpagetest.SourceFs(t, nil)
	_, err := expandArgs(fs, []string{"/nope/..."})
	assert.Error(t, err)
}
