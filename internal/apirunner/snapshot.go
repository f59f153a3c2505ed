package apirunner

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/raysh454/probe/internal/expect"
)

// Snapshot is the read-only result of one call. The body is kept raw and
// parsed as JSON only when a caller asks for it.
type Snapshot struct {
	Method     string
	URL        string
	RequestID  string
	StatusCode int
	Headers    http.Header
	Raw        []byte
	Elapsed    time.Duration

	parseOnce sync.Once
	value     ldvalue.Value
	parseErr  error
}

// Status returns the HTTP status code.
func (s *Snapshot) Status() int { return s.StatusCode }

// Text returns the body as a string.
func (s *Snapshot) Text() string { return string(s.Raw) }

// Summary is a one-line description used in failure messages.
func (s *Snapshot) Summary() string {
	return fmt.Sprintf("%s %s -> %d (%d bytes, %s)", s.Method, s.URL, s.StatusCode, len(s.Raw), s.Elapsed.Round(time.Millisecond))
}

// JSON parses the body once and returns it as a typed JSON value.
func (s *Snapshot) JSON() (ldvalue.Value, error) {
	s.parseOnce.Do(func() {
		if !json.Valid(s.Raw) {
			s.parseErr = fmt.Errorf("%s %s: response body is not valid JSON: %q", s.Method, s.URL, expect.Excerpt(string(s.Raw), 120))
			return
		}
		s.value = ldvalue.Parse(s.Raw)
	})
	return s.value, s.parseErr
}

// Decode unmarshals the body into v.
func (s *Snapshot) Decode(v any) error {
	if err := json.Unmarshal(s.Raw, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", s.Method, s.URL, err)
	}
	return nil
}

// IsEmptyObject reports whether the body is exactly the JSON object {}.
func (s *Snapshot) IsEmptyObject() bool {
	v, err := s.JSON()
	if err != nil {
		return false
	}
	return v.Type() == ldvalue.ObjectType && v.Count() == 0
}

// ExpectStatus returns a *expect.RemoteError unless the status is one of want.
func (s *Snapshot) ExpectStatus(want ...int) error {
	if slices.Contains(want, s.StatusCode) {
		return nil
	}
	return &expect.RemoteError{
		Method:     s.Method,
		URL:        s.URL,
		StatusCode: s.StatusCode,
		Expected:   want,
		Body:       s.Text(),
	}
}
