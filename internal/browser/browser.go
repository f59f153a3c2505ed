// Package browser drives a headless Chrome through chromedp. A Browser owns
// the Chrome process; every test case opens its own Page (one tab) and
// closes it when done.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/alessio/shellescape"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/probe/internal/app"
	"github.com/raysh454/probe/internal/logging"
)

type Browser struct {
	cfg    app.Config
	logger logging.Logger

	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// New launches Chrome with the options from cfg. It fails when Chrome cannot
// be started, so callers can skip browser scenarios on machines without one.
func New(cfg app.Config, logger logging.Logger) (*Browser, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With(logging.Field{Key: "component", Value: "browser"})

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1280, 900),
	)
	command := []string{"chrome", fmt.Sprintf("--headless=%t", cfg.Headless), "--disable-gpu", "--window-size=1280,900"}
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
		command[0] = cfg.ChromePath
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	logger.Info("launching browser", logging.Field{Key: "command", Value: shellescape.QuoteCommand(command)})

	// The first Run binds the browser process to browserCtx; it must not run
	// under a deadline or the process would die with it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Browser{
		cfg:           cfg,
		logger:        logger,
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}, nil
}

// Config returns the configuration the browser was launched with.
func (b *Browser) Config() app.Config { return b.cfg }

// Close shuts Chrome down. Pages still open are closed with it.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	err := chromedp.Cancel(b.browserCtx)
	b.cancelBrowser()
	b.cancelAlloc()
	if err != nil {
		b.logger.Warn("browser cancel returned error", logging.Err(err))
		return fmt.Errorf("close browser: %w", err)
	}
	b.logger.Info("browser closed")
	return nil
}
