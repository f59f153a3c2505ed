// Package apirunner issues single REST calls against a configured base URL
// and hands back snapshots for assertion. It never retries.
package apirunner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/probe/internal/app"
	"github.com/raysh454/probe/internal/expect"
	"github.com/raysh454/probe/internal/logging"
	"github.com/raysh454/probe/internal/webclient"
)

// ErrUnsupportedMethod is returned for any method outside GET/POST/PUT/PATCH/DELETE.
var ErrUnsupportedMethod = errors.New("unsupported method")

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Call describes one request. Body, when non-nil, is sent as JSON; a
// json.RawMessage is sent verbatim.
type Call struct {
	Method  string
	Path    string
	Body    any
	Headers http.Header
}

type Runner struct {
	baseURL string
	timeout time.Duration
	wc      webclient.WebClient
	logger  logging.Logger
}

// New creates a Runner for cfg.APIBaseURL. When wc is nil a fresh net/http
// client is built, so runners never share connections or cookies.
func New(cfg app.Config, wc webclient.WebClient, logger logging.Logger) (*Runner, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("api base url must be http(s), got %q", cfg.APIBaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = app.DefaultConfig().Timeout
	}
	if wc == nil {
		// The client deadline sits above the per-call one so the
		// context decides and the failure is classified as a timeout.
		client, err := webclient.NewNetHTTPClient(webclient.Config{Timeout: timeout + time.Second}, logger, nil)
		if err != nil {
			return nil, fmt.Errorf("create web client: %w", err)
		}
		wc = client
	}

	return &Runner{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		timeout: timeout,
		wc:      wc,
		logger:  logger.With(logging.Field{Key: "component", Value: "apirunner"}),
	}, nil
}

// BaseURL returns the base every path is joined to.
func (r *Runner) BaseURL() string { return r.baseURL }

// URL joins path to the base URL.
func (r *Runner) URL(path string) string {
	return r.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do sends call and reads the full response.
func (r *Runner) Do(ctx context.Context, call Call) (*Snapshot, error) {
	method := strings.ToUpper(strings.TrimSpace(call.Method))
	if !supportedMethods[method] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, call.Method)
	}

	target := r.URL(call.Path)
	requestID := uuid.NewString()

	headers := http.Header{}
	for k, vs := range call.Headers {
		headers[k] = append([]string(nil), vs...)
	}
	headers.Set("Accept", "application/json")
	headers.Set("X-Request-Id", requestID)

	var body []byte
	if call.Body != nil {
		var err error
		body, err = encodeBody(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body for %s %s: %w", method, target, err)
		}
		headers.Set("Content-Type", "application/json; charset=utf-8")
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.wc.Do(callCtx, &webclient.Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		op := method + " " + target
		if isTimeout(callCtx, err) {
			r.logger.Warn("request timed out",
				logging.Field{Key: "request_id", Value: requestID},
				logging.Field{Key: "op", Value: op},
				logging.Field{Key: "timeout", Value: r.timeout.String()})
			return nil, expect.Timeout(op, r.timeout, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.logger.Debug("received response",
		logging.Field{Key: "request_id", Value: requestID},
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: target},
		logging.Field{Key: "status", Value: resp.StatusCode})

	return &Snapshot{
		Method:     method,
		URL:        target,
		RequestID:  requestID,
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Raw:        resp.Body,
		Elapsed:    resp.Elapsed,
	}, nil
}

func (r *Runner) Get(ctx context.Context, path string) (*Snapshot, error) {
	return r.Do(ctx, Call{Method: http.MethodGet, Path: path})
}

func (r *Runner) Post(ctx context.Context, path string, body any) (*Snapshot, error) {
	return r.Do(ctx, Call{Method: http.MethodPost, Path: path, Body: body})
}

func (r *Runner) Put(ctx context.Context, path string, body any) (*Snapshot, error) {
	return r.Do(ctx, Call{Method: http.MethodPut, Path: path, Body: body})
}

func (r *Runner) Patch(ctx context.Context, path string, body any) (*Snapshot, error) {
	return r.Do(ctx, Call{Method: http.MethodPatch, Path: path, Body: body})
}

func (r *Runner) Delete(ctx context.Context, path string) (*Snapshot, error) {
	return r.Do(ctx, Call{Method: http.MethodDelete, Path: path})
}

// Close releases the underlying web client.
func (r *Runner) Close() error {
	return r.wc.Close()
}

func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
