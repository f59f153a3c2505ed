package testutil

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/raysh454/probe/internal/apirunner"
	"github.com/raysh454/probe/internal/app"
	"github.com/raysh454/probe/internal/browser"
	"github.com/raysh454/probe/internal/fixtures"
	"github.com/raysh454/probe/internal/uploadpage"
)

// Config loads the suite configuration from PROBE_* variables.
func Config(t testing.TB) app.Config {
	t.Helper()
	cfg, err := app.FromEnv()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

// APIRunner returns a runner for the posts service. Unless the config asks
// for the live service, an in-process double is started for the test.
func APIRunner(t testing.TB) *apirunner.Runner {
	t.Helper()
	cfg := Config(t)
	if !cfg.Live {
		srv := httptest.NewServer(fixtures.NewPostsServer(fixtures.DefaultConfig(), &DummyLogger{}))
		t.Cleanup(srv.Close)
		cfg.APIBaseURL = srv.URL
	}
	r, err := apirunner.New(cfg, nil, &DummyLogger{})
	if err != nil {
		t.Fatalf("new api runner: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// UploadSite is one upload page a browser scenario can run against.
type UploadSite struct {
	Name string
	URL  string
}

// UploadSites lists the upload pages for the current environment: the
// configured live page, or one double per drop zone variant.
func UploadSites(t testing.TB) []UploadSite {
	t.Helper()
	cfg := Config(t)
	if cfg.Live {
		return []UploadSite{{Name: "live", URL: cfg.UploadURL}}
	}
	return []UploadSite{
		{Name: uploadpage.WithoutHiddenInput.String(), URL: uploadDouble(t, false)},
		{Name: uploadpage.WithHiddenInput.String(), URL: uploadDouble(t, true)},
	}
}

// UploadURL returns the address of the default upload page: the live one or
// a double shaped like it.
func UploadURL(t testing.TB) string {
	t.Helper()
	cfg := Config(t)
	if cfg.Live {
		return cfg.UploadURL
	}
	return uploadDouble(t, false)
}

func uploadDouble(t testing.TB, dropZoneInput bool) string {
	t.Helper()
	cfg := fixtures.DefaultConfig()
	cfg.DropZoneInput = dropZoneInput
	srv := httptest.NewServer(fixtures.NewUploadSite(cfg, &DummyLogger{}))
	t.Cleanup(srv.Close)
	return srv.URL + uploadpage.Path
}

var (
	browserOnce   sync.Once
	sharedBrowser *browser.Browser
	browserErr    error
)

// Browser returns the browser shared by a test binary, launching it on
// first use. Tests are skipped when no browser can be started.
func Browser(t testing.TB) *browser.Browser {
	t.Helper()
	browserOnce.Do(func() {
		cfg, err := app.FromEnv()
		if err != nil {
			browserErr = err
			return
		}
		sharedBrowser, browserErr = browser.New(cfg, nil)
	})
	if browserErr != nil {
		t.Skipf("Skipping browser test (environment does not support chromedp): %v", browserErr)
	}
	return sharedBrowser
}

// NewPage opens a tab on the shared browser and closes it when t ends.
func NewPage(t testing.TB) *browser.Page {
	t.Helper()
	page, err := Browser(t).NewPage(context.Background())
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	t.Cleanup(func() { _ = page.Close() })
	return page
}

// RunSuite runs the tests of m and closes the shared browser afterwards.
// Use it from TestMain: os.Exit(testutil.RunSuite(m)).
func RunSuite(m *testing.M) int {
	code := m.Run()
	if sharedBrowser != nil {
		_ = sharedBrowser.Close()
	}
	return code
}
