package expect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TestingT is the subset of *testing.T the helpers need. It matches
// testify's require.TestingT, so any harness context implementing
// Errorf and FailNow can be used.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

type tHelper interface {
	Helper()
}

// Describer is implemented by anything that can explain the state it was
// in when an assertion failed (a page, a locator, a response).
type Describer interface {
	FailureContext(ctx context.Context) Details
}

// StatusResult is a response with an HTTP status.
type StatusResult interface {
	Status() int
	Summary() string
}

// Visibility is an element reference whose visibility can be probed.
type Visibility interface {
	IsVisible(ctx context.Context) (bool, error)
	WaitVisible(ctx context.Context, timeout time.Duration) error
	WaitHidden(ctx context.Context, timeout time.Duration) error
	String() string
}

// AttributeReader reads one attribute of an element.
type AttributeReader interface {
	Attribute(ctx context.Context, name string) (string, bool, error)
	String() string
}

// TextReader reads the text content of an element.
type TextReader interface {
	Text(ctx context.Context) (string, error)
	String() string
}

// URLReader reports the current location of a page.
type URLReader interface {
	URL(ctx context.Context) (string, error)
}

// fail reports err and stops the test case.
func fail(t TestingT, err error) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	t.Errorf("%s", err.Error())
	t.FailNow()
}

func describe(ctx context.Context, subject any) Details {
	if d, ok := subject.(Describer); ok {
		return d.FailureContext(ctx)
	}
	return nil
}

// NoError stops the test case when err is non-nil, keeping timeouts and
// other failures distinguishable in the output.
func NoError(t TestingT, err error, op string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if err == nil {
		return
	}
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		fail(t, err)
		return
	}
	fail(t, fmt.Errorf("%s: %w", op, err))
}

// Status checks the status code of an HTTP result.
func Status(t TestingT, res StatusResult, want int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if res.Status() == want {
		return
	}
	fail(t, &AssertionError{
		Check:    "status code",
		Expected: fmt.Sprint(want),
		Actual:   fmt.Sprint(res.Status()),
		Context:  Details{}.Add("response", res.Summary()),
	})
}

// Equal compares two strings and attaches a diff on mismatch.
func Equal(t TestingT, check, want, got string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if want == got {
		return
	}
	fail(t, &AssertionError{
		Check:    check,
		Expected: fmt.Sprintf("%q", want),
		Actual:   fmt.Sprintf("%q", got),
		Diff:     textDiff(want, got),
	})
}

// Contains checks that got includes want.
func Contains(t TestingT, check, got, want string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if strings.Contains(got, want) {
		return
	}
	fail(t, &AssertionError{
		Check:    check,
		Expected: fmt.Sprintf("text containing %q", want),
		Actual:   fmt.Sprintf("%q", Excerpt(got, 300)),
	})
}

// Visible waits up to timeout for v to become visible.
func Visible(ctx context.Context, t TestingT, v Visibility, timeout time.Duration) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	err := v.WaitVisible(ctx, timeout)
	if err == nil {
		return
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		te.Context = append(te.Context, describe(ctx, v)...)
		fail(t, te)
		return
	}
	fail(t, fmt.Errorf("wait for %s to be visible: %w", v, err))
}

// NotVisible waits up to timeout for v to be hidden or absent.
func NotVisible(ctx context.Context, t TestingT, v Visibility, timeout time.Duration) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	err := v.WaitHidden(ctx, timeout)
	if err == nil {
		return
	}
	if IsTimeout(err) {
		fail(t, &AssertionError{
			Check:    fmt.Sprintf("%s visibility", v),
			Expected: "not visible",
			Actual:   "visible",
			Context:  describe(ctx, v),
		})
		return
	}
	fail(t, fmt.Errorf("wait for %s to be hidden: %w", v, err))
}

// AttributeEquals reads attribute name of a and compares it with want.
func AttributeEquals(ctx context.Context, t TestingT, a AttributeReader, name, want string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	got, ok := readAttribute(ctx, t, a, name)
	if !ok {
		return
	}
	if got == want {
		return
	}
	fail(t, &AssertionError{
		Check:    fmt.Sprintf("%s attribute %q", a, name),
		Expected: fmt.Sprintf("%q", want),
		Actual:   fmt.Sprintf("%q", got),
		Diff:     textDiff(want, got),
		Context:  describe(ctx, a),
	})
}

// AttributeContains reads attribute name of a and checks it includes want.
func AttributeContains(ctx context.Context, t TestingT, a AttributeReader, name, want string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	got, ok := readAttribute(ctx, t, a, name)
	if !ok {
		return
	}
	if strings.Contains(got, want) {
		return
	}
	fail(t, &AssertionError{
		Check:    fmt.Sprintf("%s attribute %q", a, name),
		Expected: fmt.Sprintf("value containing %q", want),
		Actual:   fmt.Sprintf("%q", got),
		Context:  describe(ctx, a),
	})
}

func readAttribute(ctx context.Context, t TestingT, a AttributeReader, name string) (string, bool) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	got, present, err := a.Attribute(ctx, name)
	if err != nil {
		NoError(t, err, fmt.Sprintf("read attribute %q of %s", name, a))
		return "", false
	}
	if !present {
		fail(t, &AssertionError{
			Check:    fmt.Sprintf("%s attribute %q", a, name),
			Expected: "attribute present",
			Actual:   "attribute missing",
			Context:  describe(ctx, a),
		})
		return "", false
	}
	return got, true
}

// TextContains reads the text of r and checks it includes want.
func TextContains(ctx context.Context, t TestingT, r TextReader, want string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	got, err := r.Text(ctx)
	if err != nil {
		NoError(t, err, fmt.Sprintf("read text of %s", r))
		return
	}
	if strings.Contains(got, want) {
		return
	}
	fail(t, &AssertionError{
		Check:    fmt.Sprintf("%s text", r),
		Expected: fmt.Sprintf("text containing %q", want),
		Actual:   fmt.Sprintf("%q", Excerpt(got, 300)),
		Context:  describe(ctx, r),
	})
}

// URLEquals checks the current URL of p. A single trailing slash is ignored
// on both sides.
func URLEquals(ctx context.Context, t TestingT, p URLReader, want string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	got, err := p.URL(ctx)
	if err != nil {
		NoError(t, err, "read page url")
		return
	}
	if strings.TrimSuffix(got, "/") == strings.TrimSuffix(want, "/") {
		return
	}
	fail(t, &AssertionError{
		Check:    "page url",
		Expected: want,
		Actual:   got,
		Diff:     textDiff(want, got),
		Context:  describe(ctx, p),
	})
}
