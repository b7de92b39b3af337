// Copyright © 2024 The ELPS authors

package errorpage

import (
	"fmt"
	"runtime"
	"strings"
)

const maxStackDepth = 32

// Error is an error with an HTTP status and the call stack of the code that
// created it. File and Line may be set to report an explicit location
// instead of the one found in the stack.
type Error struct {
	Err    error
	Status int
	File   string
	Line   int

	pcs []uintptr
}

// Wrap returns err annotated with status and the caller's stack. Wrap
// returns nil if err is nil.
func Wrap(err error, status int) error {
	if err == nil {
		return nil
	}
	return newError(err, status)
}

// Errorf formats an error with status and the caller's stack.
func Errorf(status int, format string, args ...interface{}) error {
	return newError(fmt.Errorf(format, args...), status)
}

func newError(err error, status int) *Error {
	var pcs [maxStackDepth]uintptr
	// skip runtime.Callers, newError and the exported constructor
	n := runtime.Callers(3, pcs[:])
	return &Error{Err: err, Status: status, pcs: pcs[:n]}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode implements StatusCoder.
func (e *Error) StatusCode() int {
	return e.Status
}

// Location implements Located.
func (e *Error) Location() (string, int) {
	return e.File, e.Line
}

// Stack implements Stacker. The trace is formatted like a Go runtime trace:
// a function line followed by an indented file:line line per frame.
func (e *Error) Stack() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.Error())
	b.WriteByte('\n')
	if len(e.pcs) == 0 {
		return b.String()
	}
	frames := runtime.CallersFrames(e.pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s(...)\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}
