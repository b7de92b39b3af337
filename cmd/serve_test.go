// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luthersystems/errorpage/errorpage"
	"github.com/luthersystems/errorpage/errorpagetest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoRequest(t *testing.T, path, accept string) *httptest.ResponseRecorder {
	t.Helper()
	log, _ := errorpagetest.NewLogrus(t)
	h := errorpage.New(
		errorpage.WithFs(afero.NewOsFs()),
		errorpage.WithLogger(log),
		errorpage.WithErrorIDs(func() string { return "demo-id" }),
	)
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		r.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	newDemoHandler(h).ServeHTTP(w, r)
	return w
}

func TestDemoIndex(t *testing.T) {
	w := demoRequest(t, "/", "text/html")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(errorpage.HeaderErrorID))
	assert.Contains(t, w.Body.String(), `<a href="/fail">/fail</a>`)
}

func TestDemoFail(t *testing.T) {
	w := demoRequest(t, "/fail", "text/html")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
	assert.Equal(t, "demo-id", w.Header().Get(errorpage.HeaderErrorID))
	assert.Contains(t, w.Body.String(), "inventory backend unavailable")
	assert.Contains(t, w.Body.String(), "serve.go")

	w = demoRequest(t, "/fail", "application/json")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "inventory backend unavailable", body["message"])
	assert.Contains(t, body["stack"], "Error: inventory backend unavailable\n")
}

func TestDemoPanic(t *testing.T) {
	w := demoRequest(t, "/panic", "text/html")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "assignment to entry in nil map")
	assert.Contains(t, w.Body.String(), "serve.go")

	w = demoRequest(t, "/panic", "")
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Regexp(t, `^panic: assignment to entry in nil map\n\ngoroutine `, w.Body.String())
}

func TestDemoNotFound(t *testing.T) {
	w := demoRequest(t, "/missing", "text/html")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no route for GET /missing")
}

func TestRunServerShutdown(t *testing.T) {
	log, _ := errorpagetest.NewLogrus(t)
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, runServer(ctx, srv, 0, log))
}

func TestRunServerListenError(t *testing.T) {
	log, _ := errorpagetest.NewLogrus(t)
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}
	err := runServer(context.Background(), srv, 0, log)
	assert.Error(t, err)
}
