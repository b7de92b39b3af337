// Copyright © 2024 The ELPS authors

package errorpage_test

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"testing"

	"github.com/luthersystems/errorpage/errorpage"
	"github.com/luthersystems/errorpage/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "status " + http.StatusText(e.code) }
func (e statusErr) StatusCode() int { return e.code }

type jsErr struct{ stack string }

func (e jsErr) Error() string { return "js failure" }
func (e jsErr) Stack() string { return e.stack }

func TestNewRecordPlainError(t *testing.T) {
	rec := errorpage.NewRecord(errors.New("plain"))
	assert.Equal(t, errorpage.Record{Message: "plain", Stack: "Error: plain"}, rec)
	assert.Equal(t, http.StatusInternalServerError, rec.StatusCode())
}

func TestNewRecordInterfaces(t *testing.T) {
	err := fmt.Errorf("handler: %w", statusErr{http.StatusForbidden})
	rec := errorpage.NewRecord(err)
	assert.Equal(t, "handler: status Forbidden", rec.Message)
	assert.Equal(t, http.StatusForbidden, rec.StatusCode())

	err = fmt.Errorf("wrapped: %w", jsErr{stack: exampleStack})
	rec = errorpage.NewRecord(err)
	assert.Equal(t, exampleStack, rec.Stack)
	assert.Equal(t, "", rec.File)
}

func TestRecordStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   int
	}{
		{0, http.StatusInternalServerError},
		{42, http.StatusInternalServerError},
		{-404, http.StatusInternalServerError},
		{1000, http.StatusInternalServerError},
		{100, 100},
		{http.StatusNotFound, http.StatusNotFound},
		{999, 999},
	}
	for _, test := range tests {
		rec := errorpage.Record{Status: test.status}
		assert.Equal(t, test.want, rec.StatusCode(), "status %d", test.status)
	}
	rec := errorpage.NewRecord(statusErr{42})
	assert.Equal(t, http.StatusInternalServerError, rec.StatusCode())
}

func TestErrorExplicitLocation(t *testing.T) {
	err := &errorpage.Error{Err: errors.New("bad input"), Status: http.StatusBadRequest, File: "/app/form.go", Line: 31}
	rec := errorpage.NewRecord(err)
	assert.Equal(t, "/app/form.go", rec.File)
	assert.Equal(t, 31, rec.Line)
	assert.Equal(t, http.StatusBadRequest, rec.StatusCode())
	assert.Equal(t, "Error: bad input\n", rec.Stack)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, errorpage.Wrap(nil, http.StatusTeapot))

	base := errors.New("no rows")
	_, file, line, _ := runtime.Caller(0)
	err := errorpage.Wrap(base, http.StatusNotFound)
	require.Error(t, err)
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, "no rows", err.Error())

	rec := errorpage.NewRecord(err)
	assert.Equal(t, http.StatusNotFound, rec.StatusCode())
	assert.True(t, strings.HasPrefix(rec.Stack, "Error: no rows\n"))
	assert.Contains(t, rec.Stack, "errorpage_test.TestWrap(...)")
	assert.Equal(t, trace.Location{File: file, Line: line + 1}, trace.Locate(rec.Stack))
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		accept string
		want   errorpage.Format
	}{
		{"text/html", errorpage.FormatHTML},
		{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", errorpage.FormatHTML},
		{"application/json, text/html", errorpage.FormatHTML},
		{"application/json", errorpage.FormatJSON},
		{"application/vnd.api+json", errorpage.FormatJSON},
		{"*/*", errorpage.FormatText},
		{"", errorpage.FormatText},
		{"TEXT/HTML", errorpage.FormatText},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, errorpage.Negotiate(test.accept), "accept %q", test.accept)
	}
	assert.Equal(t, "html", errorpage.FormatHTML.String())
	assert.Equal(t, "application/json", errorpage.FormatJSON.ContentType())
	assert.Equal(t, "text/plain", errorpage.FormatText.ContentType())
}
