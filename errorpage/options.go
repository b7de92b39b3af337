// Copyright © 2024 The ELPS authors

package errorpage

import (
	"github.com/luthersystems/errorpage/trace"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Option configures a Handler.
type Option func(*Handler)

// WithTemplatePath renders HTML responses with the template at path instead
// of DefaultTemplate. The template is read on every HTML response.
func WithTemplatePath(path string) Option {
	return func(h *Handler) { h.templatePath = path }
}

// WithFs sets the filesystem templates and source files are read from.
func WithFs(fs afero.Fs) Option {
	return func(h *Handler) { h.fs = fs }
}

// WithAppCode replaces trace.DefaultAppCode as the classifier of
// application frames.
func WithAppCode(isAppCode trace.AppCodeFunc) Option {
	return func(h *Handler) { h.isAppCode = isAppCode }
}

// WithLogger sets the logger served errors are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(h *Handler) { h.log = log }
}

// WithTracerProvider sets the provider of the tracer used to record a span
// for each rendered error. The global provider is used by default, and when
// tp is nil.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(h *Handler) {
		if tp != nil {
			h.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithErrorIDs sets the generator of error IDs. Random UUIDs are used by
// default.
func WithErrorIDs(newID func() string) Option {
	return func(h *Handler) { h.newID = newID }
}
