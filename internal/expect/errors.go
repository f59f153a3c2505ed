// Package expect holds the failure taxonomy shared by both scenario runners
// and the assertion helpers the scenario suites are written with.
//
// Three kinds of failure are kept apart:
//
//   - *AssertionError: the operation happened, the outcome differs from the expectation.
//   - *TimeoutError: the operation did not happen within the configured window.
//   - *RemoteError: the remote service answered with a status the scenario did not expect.
package expect

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrTimeout matches every *TimeoutError via errors.Is.
var ErrTimeout = errors.New("timed out")

// Detail is one piece of structured failure context, e.g. the page URL.
type Detail struct {
	Key   string
	Value string
}

// Details is an ordered list of failure context entries.
type Details []Detail

// Add appends a detail, skipping empty values.
func (d Details) Add(key, value string) Details {
	if value == "" {
		return d
	}
	return append(d, Detail{Key: key, Value: value})
}

func (d Details) write(b *strings.Builder) {
	if len(d) == 0 {
		return
	}
	b.WriteString("\n  context:")
	for _, kv := range d {
		fmt.Fprintf(b, "\n    %s: %s", kv.Key, indent(kv.Value, "      "))
	}
}

// AssertionError reports an outcome that happened differently than expected.
type AssertionError struct {
	Check    string
	Expected string
	Actual   string
	Diff     string
	Context  Details
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "assertion failed: %s", e.Check)
	fmt.Fprintf(&b, "\n  expected: %s", e.Expected)
	fmt.Fprintf(&b, "\n  actual:   %s", e.Actual)
	if e.Diff != "" {
		fmt.Fprintf(&b, "\n  diff:     %s", e.Diff)
	}
	e.Context.write(&b)
	return b.String()
}

// TimeoutError reports an operation that never completed.
type TimeoutError struct {
	Op      string
	After   time.Duration
	Err     error
	Context Details
}

// Timeout builds a *TimeoutError for op, wrapping the underlying cause.
func Timeout(op string, after time.Duration, err error) *TimeoutError {
	return &TimeoutError{Op: op, After: after, Err: err}
}

func (e *TimeoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "did not happen: %s within %s", e.Op, e.After)
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	e.Context.write(&b)
	return b.String()
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// RemoteError reports an HTTP status the scenario did not ask for.
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Expected   []int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("unexpected status from %s %s: got %d, want one of %v; body: %s",
		e.Method, e.URL, e.StatusCode, e.Expected, Excerpt(e.Body, 200))
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

// Excerpt collapses whitespace in s and cuts it to at most n runes, marking
// a cut with "...". It never splits a multi-byte character.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
