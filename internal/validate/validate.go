// Package validate holds the checks a form runs before it talks to the
// backend. A failed check means no request is sent.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

var ErrValidation = errors.New("validation failed")

// Error carries the user-facing message for a rejected input.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return ErrValidation
}

func fail(field, format string, args ...any) error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Text rejects blank input and returns it trimmed.
func Text(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fail(field, "Please enter %s", field)
	}
	return s, nil
}

// Claims splits comma-separated input into trimmed, non-empty claims.
// Duplicates are kept.
func Claims(s string, max int) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fail("claims", "Please enter claims to fact-check")
	}

	var claims []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			claims = append(claims, part)
		}
	}

	if len(claims) == 0 {
		return nil, fail("claims", "Please enter at least one claim")
	}
	if max > 0 && len(claims) > max {
		return nil, fail("claims", "Maximum %d claims allowed per batch", max)
	}
	return claims, nil
}

// URL rejects blank input and defaults the scheme to https.
func URL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fail("url", "Please enter a URL to check")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return s, nil
}

type FileKind string

const (
	KindImage FileKind = "image"
	KindVideo FileKind = "video"
)

// File checks that data sniffs as the given kind and fits under maxBytes.
// A zero maxBytes disables the size check. The detected MIME type is
// returned for the upload.
func File(kind FileKind, data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", fail(string(kind), "Please select %s %s to analyze", article(kind), kind)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), string(kind)+"/") {
		return "", fail(string(kind), "Please select %s %s file (got %s)", article(kind), kind, mime.String())
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fail(string(kind), "%s file must be less than %s (got %s)",
			titleCase(string(kind)), humanize.IBytes(uint64(maxBytes)), humanize.IBytes(uint64(len(data))))
	}

	return mime.String(), nil
}

func article(kind FileKind) string {
	if kind == KindImage {
		return "an"
	}
	return "a"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
