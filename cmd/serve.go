// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luthersystems/errorpage/errorpage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ServeCommand returns the serve command.
func ServeCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo server whose routes fail",
		Long: `Run an HTTP server with routes that fail in different ways, so the
error pages can be viewed in a browser or fetched with curl.

Routes:
  /        index of the demo routes
  /fail    returns an error with status 503
  /panic   panics with a runtime error
  *        anything else is a 404

Examples:
  errorpage serve --listen :9000
  curl -H 'Accept: application/json' localhost:8080/fail
  errorpage serve --template ./my-error.html`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := errorpage.New(
				errorpage.WithFs(cfg.fs),
				errorpage.WithTemplatePath(viper.GetString("serve.template")),
				errorpage.WithLogger(cfg.log),
			)
			srv := &http.Server{
				Addr:              viper.GetString("serve.listen"),
				Handler:           newDemoHandler(h),
				ReadHeaderTimeout: viper.GetDuration("serve.read-header-timeout"),
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, srv, viper.GetDuration("serve.shutdown-timeout"), cfg.log)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", "127.0.0.1:8080", "Address to listen on.")
	flags.String("template", "", "HTML template for error pages (default is the built-in page).")
	flags.Duration("read-header-timeout", 10*time.Second, "Time allowed to read request headers.")
	flags.Duration("shutdown-timeout", 5*time.Second, "Time allowed for in-flight requests on shutdown.")
	for _, name := range []string{"listen", "template", "read-header-timeout", "shutdown-timeout"} {
		_ = viper.BindPFlag("serve."+name, flags.Lookup(name))
	}
	return cmd
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>errorpage demo</title></head>
<body>
<h1>errorpage demo</h1>
<ul>
{{range .}}<li><a href="{{.Path}}">{{.Path}}</a> {{.Doc}}</li>
{{end}}</ul>
</body></html>
`))

type demoRoute struct {
	Path string
	Doc  string
}

var demoRoutes = []demoRoute{
	{"/fail", "returns an error with status 503"},
	{"/panic", "panics with a runtime error"},
	{"/missing", "is not a route"},
}

// newDemoHandler returns the routes of the serve command, wrapped so that
// panics are rendered by h.
func newDemoHandler(h *errorpage.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", h.Adapt(func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/html")
		return indexTemplate.Execute(w, demoRoutes)
	}))
	mux.Handle("GET /fail", h.Adapt(func(w http.ResponseWriter, r *http.Request) error {
		return errorpage.Errorf(http.StatusServiceUnavailable, "inventory backend unavailable")
	}))
	mux.HandleFunc("GET /panic", func(w http.ResponseWriter, r *http.Request) {
		var hits map[string]int
		hits[r.URL.Path]++
	})
	mux.Handle("/", h.Adapt(func(w http.ResponseWriter, r *http.Request) error {
		return errorpage.Errorf(http.StatusNotFound, "no route for %s %s", r.Method, r.URL.Path)
	}))
	return h.Recover(mux)
}

// runServer serves until ctx is canceled and then shuts srv down, waiting
// up to timeout for in-flight requests.
func runServer(ctx context.Context, srv *http.Server, timeout time.Duration, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.WithField("addr", srv.Addr).Info("serving error page demo")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
		_ = srv.Close()
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
