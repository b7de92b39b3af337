// Copyright © 2024 The ELPS authors

package errorpage

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
)

// recoverFile is excluded from location search; the recovering closure
// is always on the stack of a recovered panic.
var recoverFile = func() string {
	_, file, _, _ := runtime.Caller(0)
	return file
}()

// Recover serves an error page for any panic raised by next.
// http.ErrAbortHandler is passed through so the server can abort the
// response as usual.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}
			h.serveRecord(w, r, panicRecord(v, debug.Stack()))
		}()
		next.ServeHTTP(w, r)
	})
}

func panicRecord(v interface{}, stack []byte) Record {
	var rec Record
	if err, ok := v.(error); ok {
		rec = NewRecord(err)
		var st Stacker
		if errors.As(err, &st) && st.Stack() != "" {
			return rec
		}
	} else {
		rec.Message = fmt.Sprint(v)
	}
	rec.Stack = "panic: " + rec.Message + "\n\n" + string(stack)
	return rec
}

// ErrorHandlerFunc is an HTTP handler that reports failure by returning an
// error instead of writing a response.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Adapt turns fn into an http.Handler. A non-nil error returned by fn is
// served with ServeError, so fn must not have written a response yet.
func (h *Handler) Adapt(fn ErrorHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.ServeError(w, r, err)
		}
	})
}
