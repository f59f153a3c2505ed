package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/raysh454/probe/internal/expect"
	"github.com/raysh454/probe/internal/logging"
)

// ErrNotFound is returned by element actions when nothing matches.
var ErrNotFound = errors.New("element not found")

const markerAttr = "data-probe-id"

// resolveJS defines the element lookup shared by every locator query. A
// text filter keeps only the innermost matches, so a heading is found
// instead of every ancestor that contains it.
const resolveJS = `
const __resolve = (css, text) => {
  let els = Array.from(document.querySelectorAll(css));
  if (text !== "") {
    els = els.filter(e => (e.textContent || "").includes(text));
    els = els.filter(e => !els.some(o => o !== e && e.contains(o)));
  }
  return els;
};
const __visible = (e) => {
  if (!e || !e.isConnected) return false;
  const st = window.getComputedStyle(e);
  if (st.visibility === "hidden" || st.display === "none") return false;
  const r = e.getBoundingClientRect();
  return r.width > 0 && r.height > 0;
};
`

// Locator is a deferred reference to elements of one page. Nothing is
// looked up until an action or query runs.
type Locator struct {
	page *Page
	css  string
	text string
}

// WithText narrows the locator to elements whose text contains text.
func (l *Locator) WithText(text string) *Locator {
	return &Locator{page: l.page, css: l.css, text: text}
}

// Page returns the page owning the locator.
func (l *Locator) Page() *Page { return l.page }

func (l *Locator) String() string {
	if l.text == "" {
		return l.css
	}
	if l.css == "body *" {
		return fmt.Sprintf("text=%q", l.text)
	}
	return fmt.Sprintf("%s >> text=%q", l.css, l.text)
}

// script builds a self-contained expression evaluating body against the
// resolved element list "els".
func (l *Locator) script(body string) string {
	css, _ := json.Marshal(l.css)
	text, _ := json.Marshal(l.text)
	return fmt.Sprintf("(() => {%s\nconst els = __resolve(%s, %s);\n%s\n})()", resolveJS, css, text, body)
}

func (l *Locator) eval(ctx context.Context, op, body string, res any) error {
	return l.page.run(ctx, op+" "+l.String(), chromedp.Evaluate(l.script(body), res))
}

// Count returns how many elements currently match.
func (l *Locator) Count(ctx context.Context) (int, error) {
	var n int
	err := l.eval(ctx, "count", `return els.length;`, &n)
	return n, err
}

// IsVisible reports whether the first match is rendered. A missing element
// is simply not visible; it is never an error.
func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	var visible bool
	err := l.eval(ctx, "check visibility of", `return els.length > 0 && __visible(els[0]);`, &visible)
	return visible, err
}

// WaitVisible polls until the first match is visible or timeout elapses.
func (l *Locator) WaitVisible(ctx context.Context, timeout time.Duration) error {
	return l.waitFor(ctx, "wait visible "+l.String(), timeout, true)
}

// WaitHidden polls until nothing visible matches or timeout elapses.
func (l *Locator) WaitHidden(ctx context.Context, timeout time.Duration) error {
	return l.waitFor(ctx, "wait hidden "+l.String(), timeout, false)
}

func (l *Locator) waitFor(ctx context.Context, op string, timeout time.Duration, want bool) error {
	if timeout <= 0 {
		timeout = l.page.timeout
	}
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		visible, err := l.IsVisible(ctx)
		switch {
		case err == nil && visible == want:
			return nil
		case err != nil && ctx.Err() != nil:
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case errors.Is(err, ErrPageClosed):
			return err
		}
		// Evaluation errors during a navigation are transient; keep polling.
		lastErr = err
		if time.Now().After(deadline) {
			return expect.Timeout(op, timeout, lastErr)
		}
		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}
}

// Text returns the text content of the first match.
func (l *Locator) Text(ctx context.Context) (string, error) {
	var res struct {
		Found bool   `json:"found"`
		Value string `json:"value"`
	}
	err := l.eval(ctx, "read text of", `return els.length ? {found: true, value: els[0].textContent || ""} : {found: false, value: ""};`, &res)
	if err != nil {
		return "", err
	}
	if !res.Found {
		return "", fmt.Errorf("read text of %s: %w", l, ErrNotFound)
	}
	return res.Value, nil
}

// AllTexts returns the text content of every match.
func (l *Locator) AllTexts(ctx context.Context) ([]string, error) {
	var texts []string
	err := l.eval(ctx, "read texts of", `return els.map(e => e.textContent || "");`, &texts)
	return texts, err
}

// Attribute returns the named attribute of the first match and whether it
// is present.
func (l *Locator) Attribute(ctx context.Context, name string) (string, bool, error) {
	attr, _ := json.Marshal(name)
	var res struct {
		Found   bool   `json:"found"`
		Present bool   `json:"present"`
		Value   string `json:"value"`
	}
	body := fmt.Sprintf(`if (!els.length) return {found: false, present: false, value: ""};
const v = els[0].getAttribute(%s);
return {found: true, present: v !== null, value: v || ""};`, attr)
	if err := l.eval(ctx, "read attribute of", body, &res); err != nil {
		return "", false, err
	}
	if !res.Found {
		return "", false, fmt.Errorf("read attribute %q of %s: %w", name, l, ErrNotFound)
	}
	return res.Value, res.Present, nil
}

// InputValue returns the value property of the first match. For a file
// input this is the browser's fake path ending in the chosen file name.
func (l *Locator) InputValue(ctx context.Context) (string, error) {
	var res struct {
		Found bool   `json:"found"`
		Value string `json:"value"`
	}
	err := l.eval(ctx, "read value of", `return els.length ? {found: true, value: String(els[0].value ?? "")} : {found: false, value: ""};`, &res)
	if err != nil {
		return "", err
	}
	if !res.Found {
		return "", fmt.Errorf("read value of %s: %w", l, ErrNotFound)
	}
	return res.Value, nil
}

// mark tags the first match with a unique attribute and returns a CSS
// selector addressing exactly that element.
func (l *Locator) mark(ctx context.Context, op string) (string, error) {
	id := uuid.NewString()
	var found bool
	body := fmt.Sprintf(`if (!els.length) return false; els[0].setAttribute(%q, %q); return true;`, markerAttr, id)
	if err := l.eval(ctx, op, body, &found); err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%s %s: %w", op, l, ErrNotFound)
	}
	return fmt.Sprintf(`[%s="%s"]`, markerAttr, id), nil
}

// Click clicks the first match once it is visible.
func (l *Locator) Click(ctx context.Context) error {
	if err := l.WaitVisible(ctx, l.page.timeout); err != nil {
		return err
	}
	sel, err := l.mark(ctx, "click")
	if err != nil {
		return err
	}
	l.page.logger.Debug("clicking", logging.Field{Key: "locator", Value: l.String()})
	l.page.net.touch()
	err = l.page.run(ctx, "click "+l.String(), chromedp.Click(sel, chromedp.ByQuery))
	l.page.net.touch()
	return err
}

// SetInputFiles selects local files on a file input. Relative paths are
// resolved against the working directory. Hidden inputs are accepted.
func (l *Locator) SetInputFiles(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return fmt.Errorf("set input files on %s: no files given", l)
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		abs = append(abs, a)
	}
	sel, err := l.mark(ctx, "set input files on")
	if err != nil {
		return err
	}
	l.page.logger.Debug("setting input files", logging.Field{Key: "locator", Value: l.String()}, logging.Field{Key: "files", Value: abs})
	return l.page.run(ctx, "set input files on "+l.String(), chromedp.SetUploadFiles(sel, abs, chromedp.ByQuery))
}

// FailureContext delegates to the owning page.
func (l *Locator) FailureContext(ctx context.Context) expect.Details {
	return append(expect.Details{}.Add("locator", l.String()), l.page.FailureContext(ctx)...)
}
