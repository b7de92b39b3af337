// Copyright © 2024 The ELPS authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/luthersystems/errorpage/diagnostic"
	"github.com/luthersystems/errorpage/errorpage"
	"github.com/luthersystems/errorpage/snippet"
	"github.com/luthersystems/errorpage/trace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type locateResult struct {
	Source     string         `json:"source"`
	Filename   string         `json:"filename"`
	LineNumber int            `json:"lineNumber"`
	Lines      []snippet.Line `json:"lines"`
}

// LocateCommand returns the locate command.
func LocateCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var (
		jsonOut  bool
		skipDirs []string
		width    uint
	)
	cmd := &cobra.Command{
		Use:   "locate [flags] [files...]",
		Short: "Find the application frame in a stack trace",
		Long: `Find the application frame in a stack trace and show the source around it.

The trace is read from each file argument, or from stdin when there are none.
Both JavaScript-style frames "at fn (/path/file.js:10:3)" and Go runtime
frames "\t/path/file.go:10 +0x1d" are understood. Frames in runtime modules,
node_modules, vendor directories and the Go module cache are skipped.

The exit status is 1 if some trace has no application frame.

Examples:
  errorpage locate crash.log                 Show the faulting source
  errorpage locate --json crash.log          Output the location as JSON
  errorpage locate logs/...                  Every .log/.trace/.txt file under logs
  errorpage locate --skip-dir generated x.log  Also skip frames under generated/`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readTraces(cfg.fs, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			preds := []trace.AppCodeFunc{trace.DefaultAppCode}
			for _, dir := range skipDirs {
				preds = append(preds, trace.NotUnderDir(dir))
			}
			h := errorpage.New(
				errorpage.WithFs(cfg.fs),
				errorpage.WithAppCode(trace.All(preds...)),
				errorpage.WithLogger(cfg.log),
			)
			extractor := snippet.Extractor{Fs: cfg.fs}

			var (
				results []locateResult
				diags   []diagnostic.Diagnostic
				missing int
			)
			for _, src := range sources {
				loc := h.Locate(errorpage.Record{Stack: src.text})
				if loc.IsZero() {
					missing++
				}
				if jsonOut {
					lines, _ := extractor.Extract(cmd.Context(), loc.File, loc.Line)
					results = append(results, locateResult{
						Source:     src.name,
						Filename:   loc.File,
						LineNumber: loc.Line,
						Lines:      lines,
					})
					continue
				}
				diags = append(diags, traceToDiagnostic(src.name, src.text, loc))
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(results)
			} else {
				err = newRenderer(cfg.fs, width).RenderAll(out, diags)
			}
			if err != nil {
				return err
			}
			if missing > 0 {
				return fmt.Errorf("no application frame in %d of %d traces", missing, len(sources))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output locations and source lines as JSON.")
	cmd.Flags().StringArrayVar(&skipDirs, "skip-dir", nil,
		"Also treat frames under this directory as library code (may be repeated).")
	cmd.Flags().UintVar(&width, "width", 0,
		"Wrap messages and notes at this many columns (0 disables wrapping).")
	return cmd
}

type traceSource struct {
	name string
	text string
}

func readTraces(fs afero.Fs, stdin io.Reader, args []string) ([]traceSource, error) {
	if len(args) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []traceSource{{name: "<stdin>", text: string(b)}}, nil
	}
	paths, err := expandArgs(fs, args)
	if err != nil {
		return nil, err
	}
	sources := make([]traceSource, 0, len(paths))
	for _, path := range paths {
		b, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sources = append(sources, traceSource{name: path, text: string(b)})
	}
	return sources, nil
}
