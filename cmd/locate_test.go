// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/luthersystems/errorpage/errorpagetest"
	"github.com/luthersystems/errorpage/snippet"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nodeTrace = `Error: boom
    at foo (/app/routes/x.js:10:3)
    at bar (/app/node_modules/lib/y.js:3:1)
`

func sourceLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("code(%d)", i+1)
	}
	return strings.Join(lines, "\n")
}

func runLocate(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, error) {
	t.Helper()
	log, _ := errorpagetest.NewLogrus(t)
	cmd := LocateCommand(WithFs(fs), WithLogger(log))
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLocateText(t *testing.T) {
	fs := errorpagetest.SourceFs(t, map[string]string{
		"/app/routes/x.js": sourceLines(20),
		"/logs/crash.log":  nodeTrace,
	})
	out, err := runLocate(t, fs, "", "/logs/crash.log")
	require.NoError(t, err)

	want := `error: Error: boom
  --> /app/routes/x.js:10 first application frame
    |
  5 |  code(5)
  6 |  code(6)
  7 |  code(7)
  8 |  code(8)
  9 |  code(9)
 10 >  code(10)
 11 |  code(11)
 12 |  code(12)
 13 |  code(13)
 14 |  code(14)
    |
   = note: at foo (/app/routes/x.js:10:3)
   = note: at bar (/app/node_modules/lib/y.js:3:1)
`
	assert.Equal(t, want, out)
}

func TestLocateStdin(t *testing.T) {
	fs := errorpagetest.SourceFs(t, map[string]string{
		"/app/routes/x.js": sourceLines(20),
	})
	out, err := runLocate(t, fs, nodeTrace)
	require.NoError(t, err)
	assert.Contains(t, out, "--> /app/routes/x.js:10 first application frame")
}

func TestLocateJSON(t *testing.T) {
	fs := errorpagetest.SourceFs(t, map[string]string{
		"/app/routes/x.js": sourceLines(20),
		"/logs/a.log":      nodeTrace,
		"/logs/b.trace":    strings.ReplaceAll(nodeTrace, "x.js:10", "x.js:2"),
	})
	out, err := runLocate(t, fs, "", "--json", "/logs/...")
	require.NoError(t, err)

	var results []locateResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	assert.Equal(t, "/logs/a.log", results[0].Source)
	assert.Equal(t, "/app/routes/x.js", results[0].Filename)
	assert.Equal(t, 9, results[0].LineNumber)
	errorpagetest.AssertSnippet(t, results[0].Lines, 20, 9)
	assert.Equal(t, snippet.Line{Number: 9, Error: true, Code: "code(10)"}, results[0].Lines[5])

	assert.Equal(t, "/logs/b.trace", results[1].Source)
	assert.Equal(t, 1, results[1].LineNumber)
	errorpagetest.AssertSnippet(t, results[1].Lines, 20, 1)
}

func TestLocateSkipDir(t *testing.T) {
	fs := errorpagetest.SourceFs(t, map[string]string{
		"/app/lib/y.js": sourceLines(20),
	})
	stack := "Error: boom\n    at foo (/app/routes/x.js:10:3)\n    at bar (/app/lib/y.js:3:1)\n"

	out, err := runLocate(t, fs, stack, "--json", "--skip-dir", "routes")
	require.NoError(t, err)
	var results []locateResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "/app/lib/y.js", results[0].Filename)
	assert.Equal(t, 2, results[0].LineNumber)
}

func TestLocateNoApplicationFrame(t *testing.T) {
	fs := errorpagetest.SourceFs(t, nil)
	stack := "Error: boom\n    at Module._compile (module.js:456:26)\n"

	out, err := runLocate(t, fs, stack)
	assert.EqualError(t, err, "no application frame in 1 of 1 traces")
	assert.Contains(t, out, "warning: Error: boom")
	assert.Contains(t, out, "= note: no application frame found in <stdin>")
	assert.Contains(t, out, "= note: at Module._compile (module.js:456:26)")
}

func TestLocateMissingFile(t *testing.T) {
	fs := errorpagetest.SourceFs(t, nil)
	_, err := runLocate(t, fs, "", "/logs/none.log")
	assert.Error(t, err)
}
