// Copyright © 2024 The ELPS authors

// Package errorpage renders the response for a failed HTTP request.
//
// A Handler is the last stop of a request that went wrong. It finds the
// application source line responsible for the error, and answers the client
// with an HTML page showing that line in context, a JSON object, or the bare
// trace, depending on the request's Accept header.
//
// Handlers hold no per-request state and are safe for concurrent use.
package errorpage

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/luthersystems/errorpage/snippet"
	"github.com/luthersystems/errorpage/trace"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// HeaderErrorID is the response header carrying the error's ID.
const HeaderErrorID = "X-Error-Id"

const tracerName = "github.com/luthersystems/errorpage"

// Handler renders error responses.
type Handler struct {
	fs           afero.Fs
	templatePath string
	isAppCode    trace.AppCodeFunc
	log          logrus.FieldLogger
	tracer       oteltrace.Tracer
	newID        func() string

	locator   trace.Locator
	extractor snippet.Extractor
}

// New returns a Handler configured by opts.
func New(opts ...Option) *Handler {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if h.fs == nil {
		h.fs = afero.NewOsFs()
	}
	if h.isAppCode == nil {
		h.isAppCode = trace.DefaultAppCode
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	if h.tracer == nil {
		h.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	if h.newID == nil {
		h.newID = uuid.NewString
	}
	h.locator = trace.Locator{IsAppCode: trace.All(h.isAppCode, trace.NotFile(recoverFile))}
	h.extractor = snippet.Extractor{Fs: h.fs}
	return h
}

// ServeError answers r with a response describing err. It always writes a
// response and never panics.
func (h *Handler) ServeError(w http.ResponseWriter, r *http.Request, err error) {
	h.serveRecord(w, r, NewRecord(err))
}

func (h *Handler) serveRecord(w http.ResponseWriter, r *http.Request, rec Record) {
	log := h.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	h.render(r.Context(), w, r.Header.Get("Accept"), rec, log)
}

// Render writes the response for rec in the format accept asks for.
func (h *Handler) Render(ctx context.Context, w http.ResponseWriter, accept string, rec Record) {
	h.render(ctx, w, accept, rec, h.log)
}

// Locate returns the location rec is reported at. An explicit location is
// returned as is. A location found in the trace has its line moved back by
// one, turning the trace's 1-based line into a 0-based index into the file.
func (h *Handler) Locate(rec Record) trace.Location {
	if rec.File != "" {
		return trace.Location{File: rec.File, Line: rec.Line}
	}
	loc := h.locator.Locate(rec.Stack)
	loc.Line--
	return loc
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, accept string, rec Record, log logrus.FieldLogger) {
	status := rec.StatusCode()
	loc := h.Locate(rec)
	format := Negotiate(accept)
	id := h.newID()

	ctx, span := h.tracer.Start(ctx, "errorpage.render", oteltrace.WithAttributes(
		semconv.CodeFilepath(loc.File),
		semconv.CodeLineNumber(loc.Line),
		attribute.Int("http.response.status_code", status),
		attribute.String("errorpage.format", format.String()),
		attribute.String("errorpage.error_id", id),
	))
	defer span.End()
	span.SetStatus(codes.Error, rec.Message)

	log = log.WithFields(logrus.Fields{
		"error_id": id,
		"status":   status,
		"format":   format.String(),
		"file":     loc.File,
		"line":     loc.Line,
	})
	log.Error(rec.Message)

	w.Header().Set(HeaderErrorID, id)
	switch format {
	case FormatHTML:
		h.renderHTML(ctx, w, PageData{
			Message:    rec.Message,
			Stack:      rec.Stack,
			Filename:   loc.File,
			LineNumber: loc.Line,
			Status:     status,
			ErrorID:    id,
		}, log)
	case FormatJSON:
		writeJSON(w, rec, log)
	default:
		w.Header().Set("Content-Type", FormatText.ContentType())
		writeBody(w, []byte(rec.Stack), log)
	}
}

// renderHTML loads the template and the snippet concurrently, then renders
// the page. A missing snippet leaves the page without source lines; any
// template failure falls back to the plain trace.
func (h *Handler) renderHTML(ctx context.Context, w http.ResponseWriter, data PageData, log logrus.FieldLogger) {
	var (
		wg      conc.WaitGroup
		tmpl    *template.Template
		tmplErr error
		snipErr error
	)
	wg.Go(func() {
		tmpl, tmplErr = h.loadTemplate()
	})
	wg.Go(func() {
		data.Lines, snipErr = h.extractor.Extract(ctx, data.Filename, data.LineNumber)
	})
	if p := wg.WaitAndRecover(); p != nil {
		tmplErr = p.AsError()
	}
	if snipErr != nil {
		data.Lines = nil
		log.WithError(snipErr).Debug("errorpage: source snippet unavailable")
	}

	var page bytes.Buffer
	if tmplErr == nil {
		tmplErr = tmpl.Execute(&page, data)
	}
	if tmplErr != nil {
		log.WithError(tmplErr).Warn("errorpage: html page failed, sending plain text")
		w.Header().Set("Content-Type", FormatText.ContentType())
		w.WriteHeader(data.Status)
		writeBody(w, []byte(data.Stack), log)
		return
	}
	w.Header().Set("Content-Type", FormatHTML.ContentType())
	w.WriteHeader(data.Status)
	writeBody(w, page.Bytes(), log)
}

func writeJSON(w http.ResponseWriter, rec Record, log logrus.FieldLogger) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Message string `json:"message"`
		Stack   string `json:"stack"`
	}{rec.Message, rec.Stack})
	if err != nil {
		log.WithError(err).Warn("errorpage: encode json response")
		w.Header().Set("Content-Type", FormatText.ContentType())
		writeBody(w, []byte(rec.Stack), log)
		return
	}
	w.Header().Set("Content-Type", FormatJSON.ContentType())
	writeBody(w, bytes.TrimSuffix(buf.Bytes(), []byte("\n")), log)
}

func writeBody(w http.ResponseWriter, body []byte, log logrus.FieldLogger) {
	if _, err := w.Write(body); err != nil {
		log.WithError(err).Debug("errorpage: write response")
	}
}
