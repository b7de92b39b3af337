// Copyright © 2024 The ELPS authors

package errorpage

import "strings"

// Format is a response representation.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// ContentType returns the Content-Type header value for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain"
	}
}

// Negotiate picks a format from an Accept header. HTML wins over JSON;
// anything else, including an empty header, gets plain text.
func Negotiate(accept string) Format {
	switch {
	case strings.Contains(accept, "html"):
		return FormatHTML
	case strings.Contains(accept, "json"):
		return FormatJSON
	default:
		return FormatText
	}
}
