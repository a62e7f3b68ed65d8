package erpnext

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"unicode"
)

// Sentinel errors, one per error kind. Every *Error matches exactly one of
// them with errors.Is.
var (
	// ErrAuth indicates the login endpoint rejected the credentials
	ErrAuth = errors.New("authentication failed")
	// ErrValidation indicates the server rejected a record with a ValidationError
	ErrValidation = errors.New("validation error")
	// ErrDuplicateEntry indicates a write collided with an existing key
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrConflict indicates a 409 without a recognizable duplicate key
	ErrConflict = errors.New("conflict")
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrTransport covers every other failure, network errors included
	ErrTransport = errors.New("transport error")
	// ErrDecode indicates a success response whose body is not valid JSON
	ErrDecode = errors.New("malformed response body")
)

// Kind is the classification of a failed call.
type Kind int

const (
	KindTransport Kind = iota
	KindAuth
	KindValidation
	KindDuplicateEntry
	KindConflict
	KindNotFound
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindDuplicateEntry:
		return "duplicate_entry"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindDecode:
		return "decode"
	default:
		return "transport"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindAuth:
		return ErrAuth
	case KindValidation:
		return ErrValidation
	case KindDuplicateEntry:
		return ErrDuplicateEntry
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrNotFound
	case KindDecode:
		return ErrDecode
	default:
		return ErrTransport
	}
}

// Error is a classified ERPNext failure. StatusCode is zero when the request
// never produced a response.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

const invalidPasswordMessage = "Authorization Error, you have entered an invalid password"

var (
	validationPattern = regexp.MustCompile(`ValidationError: (.*)`)
	duplicatePattern  = regexp.MustCompile(`Duplicate entry '([^']*)' for`)
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
)

// Fields of a JSON error body that may carry the traceback, most specific
// first.
var tracebackFields = []string{"exception", "exc", "message"}

// ErrorClassifier turns a failed exchange into an *Error.
type ErrorClassifier interface {
	// Classify is called with a non-nil cause when no response was received,
	// otherwise with the non-2xx status and body. login is true for calls to
	// the login endpoint.
	Classify(login bool, statusCode int, body []byte, cause error) *Error
}

// ClassifierFunc adapts a function to ErrorClassifier.
type ClassifierFunc func(login bool, statusCode int, body []byte, cause error) *Error

func (f ClassifierFunc) Classify(login bool, statusCode int, body []byte, cause error) *Error {
	return f(login, statusCode, body, cause)
}

// DefaultClassifier extracts the actionable line from the tracebacks ERPNext
// embeds in its error bodies.
var DefaultClassifier ErrorClassifier = ClassifierFunc(Classify)

// Classify is the default classification. It never fails: when an expected
// pattern is missing the error falls back to KindTransport with the raw body.
func Classify(login bool, statusCode int, body []byte, cause error) *Error {
	if cause != nil {
		return &Error{
			Kind:    KindTransport,
			Message: cause.Error(),
			Err:     cause,
		}
	}

	raw := string(body)
	e := &Error{StatusCode: statusCode, Body: raw}

	switch {
	case statusCode == http.StatusUnauthorized && login:
		e.Kind = KindAuth
		e.Message = invalidPasswordMessage
		return e

	case statusCode == http.StatusExpectationFailed:
		if reason, ok := validationReason(raw); ok {
			e.Kind = KindValidation
			e.Message = "Validation Error: " + reason
			return e
		}

	case statusCode == http.StatusConflict:
		if m := duplicatePattern.FindStringSubmatch(raw); len(m) == 2 && m[1] != "" {
			e.Kind = KindDuplicateEntry
			e.Message = "Duplicate Entry on " + m[1]
			return e
		}
		e.Kind = KindConflict
		e.Message = fmt.Sprintf("conflict: %s", raw)
		return e

	case statusCode == http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = fmt.Sprintf("not found: %s", raw)
		return e
	}

	e.Kind = KindTransport
	e.Message = fmt.Sprintf("request failed with status %d: %s", statusCode, raw)
	return e
}

// validationReason returns the text following "ValidationError: " up to the
// end of its line. Markup and escaped quotes are removed, as is trailing
// punctuation.
func validationReason(raw string) (string, bool) {
	for _, text := range tracebackSources(raw) {
		m := validationPattern.FindStringSubmatch(text)
		if len(m) != 2 {
			continue
		}
		if reason := cleanReason(m[1]); reason != "" {
			return reason, true
		}
	}
	return "", false
}

// tracebackSources returns the decoded traceback fields of a JSON body
// followed by the raw body itself.
func tracebackSources(raw string) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return []string{raw}
	}

	sources := make([]string, 0, len(tracebackFields)+1)
	for _, key := range tracebackFields {
		var text string
		if err := json.Unmarshal(fields[key], &text); err == nil {
			sources = append(sources, text)
		}
	}
	return append(sources, raw)
}

func cleanReason(reason string) string {
	// Tracebacks nested in JSON strings keep their newlines escaped.
	for _, end := range []string{`\n`, "</pre>"} {
		if i := strings.Index(reason, end); i >= 0 {
			reason = reason[:i]
		}
	}
	reason = strings.ReplaceAll(reason, `\"`, `"`)
	reason = markupPattern.ReplaceAllString(reason, "")
	reason = html.UnescapeString(reason)
	return strings.TrimRightFunc(strings.TrimSpace(reason), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
