package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/raysh454/probe/internal/expect"
	"github.com/raysh454/probe/internal/logging"
)

// ErrPageClosed is returned by every operation on a closed page.
var ErrPageClosed = errors.New("page closed")

const pollInterval = 100 * time.Millisecond

// Page is one browser tab owned by a single test case.
type Page struct {
	id      string
	tabCtx  context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	idle    time.Duration
	net     *networkTracker
	logger  logging.Logger

	mu     sync.Mutex
	closed bool
}

// NewPage opens a fresh tab. ctx only bounds the opening itself; the tab
// lives until Close.
func (b *Browser) NewPage(ctx context.Context) (*Page, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("new page: browser closed")
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	p := &Page{
		id:      uuid.NewString(),
		tabCtx:  tabCtx,
		cancel:  cancel,
		timeout: b.cfg.Timeout,
		idle:    b.cfg.NetworkIdle,
		net:     newNetworkTracker(),
	}
	p.logger = b.logger.With(logging.Field{Key: "page", Value: p.id})
	chromedp.ListenTarget(tabCtx, p.net.handle)

	// Same rule as the browser: the first Run creates the tab and must use
	// the tab context itself.
	errc := make(chan error, 1)
	go func() { errc <- chromedp.Run(tabCtx, network.Enable()) }()
	select {
	case err := <-errc:
		if err != nil {
			cancel()
			return nil, fmt.Errorf("open page: %w", err)
		}
	case <-ctx.Done():
		cancel()
		return nil, fmt.Errorf("open page: %w", ctx.Err())
	}

	p.logger.Debug("page opened")
	return p, nil
}

// run executes actions under the page timeout and the caller's ctx.
func (p *Page) run(ctx context.Context, op string, actions ...chromedp.Action) error {
	return p.runFor(ctx, op, p.timeout, actions...)
}

func (p *Page) runFor(ctx context.Context, op string, timeout time.Duration, actions ...chromedp.Action) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return fmt.Errorf("%s: %w", op, ErrPageClosed)
	}

	opCtx, cancel := context.WithTimeout(p.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(opCtx, actions...)
	if err == nil {
		return nil
	}
	if errors.Is(opCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return expect.Timeout(op, timeout, err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Goto navigates and waits for the load event.
func (p *Page) Goto(ctx context.Context, url string) error {
	p.logger.Debug("navigating", logging.Field{Key: "url", Value: url})
	p.net.touch()
	return p.run(ctx, "navigate to "+url, chromedp.Navigate(url))
}

// URL returns the address of the current document.
func (p *Page) URL(ctx context.Context) (string, error) {
	var loc string
	err := p.run(ctx, "read location", chromedp.Location(&loc))
	return loc, err
}

// Title returns the document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	var title string
	err := p.run(ctx, "read title", chromedp.Title(&title))
	return title, err
}

// BodyText returns the text content of <body>.
func (p *Page) BodyText(ctx context.Context) (string, error) {
	var text string
	err := p.run(ctx, "read body text",
		chromedp.Evaluate(`document.body ? document.body.textContent : ""`, &text))
	return text, err
}

// HTML returns the outer HTML of the document element.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, "read html", chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// WaitForNetworkIdle blocks until the tab had no request in flight for the
// configured idle window, or fails with a timeout.
func (p *Page) WaitForNetworkIdle(ctx context.Context) error {
	return p.WaitForNetworkIdleAfter(ctx, p.idle)
}

// WaitForNetworkIdleAfter is WaitForNetworkIdle with an explicit idle window.
func (p *Page) WaitForNetworkIdleAfter(ctx context.Context, idleAfter time.Duration) error {
	op := "wait for network idle"
	deadline := time.NewTimer(p.timeout)
	defer deadline.Stop()
	tick := time.NewTicker(pollInterval / 2)
	defer tick.Stop()

	for {
		if p.net.idle(time.Now(), idleAfter) {
			return nil
		}
		select {
		case <-tick.C:
		case <-deadline.C:
			return expect.Timeout(op, p.timeout, fmt.Errorf("%d requests still in flight", p.net.pending()))
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-p.tabCtx.Done():
			return fmt.Errorf("%s: %w", op, ErrPageClosed)
		}
	}
}

// Wait pauses for a fixed duration.
func (p *Page) Wait(ctx context.Context, d time.Duration) error {
	return p.runFor(ctx, fmt.Sprintf("wait %s", d), d+p.timeout, chromedp.Sleep(d))
}

// Locator returns a lazy reference to the elements matching css.
func (p *Page) Locator(css string) *Locator {
	return &Locator{page: p, css: css}
}

// GetByText returns a lazy reference to the innermost elements whose text
// contains text.
func (p *Page) GetByText(text string) *Locator {
	return &Locator{page: p, css: "body *", text: text}
}

// FailureContext describes the page for assertion failures: address,
// title, headings and the start of the body text.
func (p *Page) FailureContext(ctx context.Context) expect.Details {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var d expect.Details
	if u, err := p.URL(ctx); err == nil {
		d = d.Add("url", u)
	}
	if title, err := p.Title(ctx); err == nil {
		d = d.Add("title", title)
	}
	html, err := p.HTML(ctx)
	if err != nil {
		return d
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return d
	}
	var headings []string
	doc.Find("h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			headings = append(headings, t)
		}
	})
	d = d.Add("headings", strings.Join(headings, " | "))
	return d.Add("body", expect.Excerpt(doc.Find("body").Text(), 200))
}

// Close closes the tab. It is safe to call more than once.
func (p *Page) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	err := chromedp.Cancel(p.tabCtx)
	p.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Warn("closing page", logging.Err(err))
		return fmt.Errorf("close page: %w", err)
	}
	p.logger.Debug("page closed")
	return nil
}
