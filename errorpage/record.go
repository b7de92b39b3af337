// Copyright © 2024 The ELPS authors

package errorpage

import (
	"errors"
	"net/http"
)

// Record is the error being reported.
type Record struct {
	Message string
	// Stack is the diagnostic trace, one frame per line, most recent call
	// first.
	Stack string
	// File and Line locate the error explicitly. An empty File means the
	// location must be found in Stack.
	File string
	Line int
	// Status is the HTTP status of the response. Zero, or any value that is
	// not a three-digit code, means 500.
	Status int
}

// StatusCode returns the record's status, defaulting to 500. Values that
// net/http would refuse to write are replaced by 500 as well.
func (rec Record) StatusCode() int {
	if rec.Status < 100 || rec.Status > 999 {
		return http.StatusInternalServerError
	}
	return rec.Status
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// Located is implemented by errors that know their source location.
type Located interface {
	Location() (file string, line int)
}

// Stacker is implemented by errors that carry a diagnostic trace.
type Stacker interface {
	Stack() string
}

// NewRecord describes err. Each optional interface is looked up
// independently along err's chain of wrapped errors. An error without a
// trace gets a one-line trace made from its message.
func NewRecord(err error) Record {
	if err == nil {
		err = errors.New(http.StatusText(http.StatusInternalServerError))
	}
	rec := Record{Message: err.Error()}

	var sc StatusCoder
	if errors.As(err, &sc) {
		rec.Status = sc.StatusCode()
	}
	var loc Located
	if errors.As(err, &loc) {
		rec.File, rec.Line = loc.Location()
	}
	var st Stacker
	if errors.As(err, &st) {
		rec.Stack = st.Stack()
	}
	if rec.Stack == "" {
		rec.Stack = "Error: " + rec.Message
	}
	return rec
}
