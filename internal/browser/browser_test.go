package browser_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/probe/internal/app"
	"github.com/raysh454/probe/internal/browser"
	"github.com/raysh454/probe/internal/expect"
)

var (
	shared    *browser.Browser
	launchErr error
)

func TestMain(m *testing.M) {
	cfg := app.DefaultConfig()
	cfg.Timeout = 10 * time.Second
	cfg.NetworkIdle = 200 * time.Millisecond
	if path := os.Getenv("PROBE_CHROME_PATH"); path != "" {
		cfg.ChromePath = path
	}
	shared, launchErr = browser.New(cfg, nil)

	code := m.Run()
	if shared != nil {
		_ = shared.Close()
	}
	os.Exit(code)
}

func newPage(t *testing.T) *browser.Page {
	t.Helper()
	if launchErr != nil {
		t.Skipf("Skipping browser test (environment does not support chromedp): %v", launchErr)
	}
	page, err := shared.NewPage(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = page.Close() })
	return page
}

const testPage = `<!DOCTYPE html>
<html><head><title>Fixture</title></head>
<body>
  <h3>First heading</h3>
  <h3 id="late" style="display:none">Appears later</h3>
  <p class="intro">Choose a file on your system. Or, drag and drop.</p>
  <a id="ext" href="http://example.com/" target="_blank">Example</a>
  <form method="POST" action="/submit" enctype="multipart/form-data">
    <input id="file" type="file" name="file">
    <input id="hidden-file" type="file" name="other" style="display:none">
    <input id="go" type="submit" value="Go">
  </form>
  <script>setTimeout(() => { document.getElementById("late").style.display = "block"; }, 300);</script>
</body></html>`

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, testPage)
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		f.Close()
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><h3>Done</h3><div id="name">%s</div></body></html>`, hdr.Filename)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPage_NavigationAndQueries(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	srv := fixtureServer(t)
	ctx := context.Background()

	require.NoError(t, page.Goto(ctx, srv.URL+"/"))

	title, err := page.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fixture", title)

	u, err := page.URL(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/", u)

	n, err := page.Locator("h3").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	text, err := page.Locator("h3").WithText("First").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First heading", text)

	visible, err := page.GetByText("drag and drop").IsVisible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	href, present, err := page.Locator("#ext").Attribute(ctx, "href")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "http://example.com/", href)

	_, present, err = page.Locator("#ext").Attribute(ctx, "rel")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestLocator_MissingElementIsNotVisible(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	srv := fixtureServer(t)
	ctx := context.Background()
	require.NoError(t, page.Goto(ctx, srv.URL+"/"))

	missing := page.Locator("#does-not-exist")
	visible, err := missing.IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	n, err := missing.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = missing.Text(ctx)
	assert.ErrorIs(t, err, browser.ErrNotFound)

	assert.NoError(t, missing.WaitHidden(ctx, time.Second))
}

func TestLocator_WaitVisibleTimesOutDistinctly(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	srv := fixtureServer(t)
	ctx := context.Background()
	require.NoError(t, page.Goto(ctx, srv.URL+"/"))

	assert.NoError(t, page.Locator("#late").WaitVisible(ctx, 5*time.Second))

	err := page.Locator("#hidden-file").WaitVisible(ctx, 300*time.Millisecond)
	require.Error(t, err)
	assert.True(t, expect.IsTimeout(err), "got %v", err)
}

func TestLocator_UploadRoundTrip(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	srv := fixtureServer(t)
	ctx := context.Background()
	require.NoError(t, page.Goto(ctx, srv.URL+"/"))

	file := filepath.Join(t.TempDir(), "payload.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o644))

	input := page.Locator("#file")
	require.NoError(t, input.SetInputFiles(ctx, file))
	value, err := input.InputValue(ctx)
	require.NoError(t, err)
	assert.Contains(t, value, "payload.txt")

	require.NoError(t, page.Locator("#hidden-file").SetInputFiles(ctx, file), "hidden inputs accept files")

	require.NoError(t, page.Locator("#go").Click(ctx))
	require.NoError(t, page.WaitForNetworkIdle(ctx))

	require.NoError(t, page.Locator("h3").WithText("Done").WaitVisible(ctx, 5*time.Second))
	name, err := page.Locator("#name").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payload.txt", name)

	details := page.FailureContext(ctx)
	assert.Contains(t, details, expect.Detail{Key: "headings", Value: "Done"})
}

func TestLocator_SetInputFilesOnMissingElement(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	srv := fixtureServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, page.Goto(ctx, srv.URL+"/"))

	err := page.Locator("#nope").SetInputFiles(ctx, "missing.txt")
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestPage_ClosedPageRejectsOperations(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	require.NoError(t, page.Close())
	require.NoError(t, page.Close())

	_, err := page.Title(context.Background())
	assert.ErrorIs(t, err, browser.ErrPageClosed)
}

func TestPage_Wait(t *testing.T) {
	t.Parallel()
	page := newPage(t)
	start := time.Now()
	require.NoError(t, page.Wait(context.Background(), 150*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
