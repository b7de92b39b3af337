// Copyright © 2024 The ELPS authors

package errorpage

import (
	_ "embed"
	"fmt"
	"html/template"

	"github.com/luthersystems/errorpage/snippet"
	"github.com/spf13/afero"
)

// DefaultTemplate is the page rendered for HTML clients when no template
// path is configured.
//
//go:embed template/error.html
var DefaultTemplate string

// PageData is the value an HTML template is executed with.
type PageData struct {
	Message    string
	Stack      string
	Lines      []snippet.Line
	Filename   string
	LineNumber int
	Status     int
	ErrorID    string
}

// loadTemplate reads and parses the configured template, or the default one.
func (h *Handler) loadTemplate() (*template.Template, error) {
	src := DefaultTemplate
	if h.templatePath != "" {
		b, err := afero.ReadFile(h.fs, h.templatePath)
		if err != nil {
			return nil, fmt.Errorf("errorpage: read template: %w", err)
		}
		src = string(b)
	}
	tmpl, err := template.New("error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("errorpage: parse template: %w", err)
	}
	return tmpl, nil
}
