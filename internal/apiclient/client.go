// Package apiclient issues requests to the Blasira REST backend with the
// session headers attached, a hard timeout, and backend errors translated to
// generic user-facing messages.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 10 * time.Second
	LoginPath      = "/login"

	csrfHeaderName      = "X-CSRF-Token"
	requestIDHeaderName = "X-Request-ID"

	// error bodies beyond this are not worth decoding
	maxErrorBodyBytes = 64 << 10
)

// Credentials supplies the session headers. Headers are read per request, never cached.
type Credentials interface {
	AuthHeaders(ctx context.Context) http.Header
	CSRFToken(ctx context.Context) (string, error)
	RemoveToken(ctx context.Context) error
}

// Navigator moves the user to another route, e.g. to the login page on 401.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Production hides backend error bodies from returned errors.
	Production bool
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	production bool
	httpClient *http.Client
	creds      Credentials
	navigator  Navigator
}

func New(config Config, creds Credentials, navigator Navigator) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		timeout:    config.Timeout,
		production: config.Production,
		httpClient: config.HTTPClient,
		creds:      creds,
		navigator:  navigator,
	}
}

type requestOptions struct {
	requireAuth bool
	requireCSRF bool
	headers     http.Header
	timeout     time.Duration
}

type Option func(*requestOptions)

func WithoutAuth() Option {
	return func(o *requestOptions) { o.requireAuth = false }
}

func WithoutCSRF() Option {
	return func(o *requestOptions) { o.requireCSRF = false }
}

func WithHeader(key, value string) Option {
	return func(o *requestOptions) { o.headers.Set(key, value) }
}

func WithTimeout(d time.Duration) Option {
	return func(o *requestOptions) { o.timeout = d }
}

// Resolve joins endpoint onto the base URL unless it is already absolute.
func (c *Client) Resolve(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.IsAbs() {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Do sends the request. On success the caller must close the response body.
// Every failure is an *Error.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, opts ...Option) (*http.Response, error) {
	o := requestOptions{
		requireAuth: true,
		requireCSRF: true,
		headers:     http.Header{},
		timeout:     c.timeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindRequest, Message: MsgGeneric, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	target := c.Resolve(endpoint)

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		cancel()
		return nil, &Error{Kind: KindRequest, Message: MsgGeneric, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	c.applyHeaders(ctx, req, o)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, c.transportError(ctx, method, endpoint, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("[API] request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer cancel()
		defer resp.Body.Close()
		return nil, c.httpError(ctx, method, endpoint, resp)
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, ctx: ctx, cancel: cancel}
	return resp, nil
}

func (c *Client) applyHeaders(ctx context.Context, req *http.Request, o requestOptions) {
	for key, values := range o.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeaderName, uuid.NewString())

	if o.requireAuth && c.creds != nil {
		for key, values := range c.creds.AuthHeaders(ctx) {
			req.Header.Del(key)
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	if o.requireCSRF && c.creds != nil && isMutating(req.Method) {
		csrfToken, err := c.creds.CSRFToken(ctx)
		if err != nil {
			log.Error().Err(err).Msg("[API] failed to obtain csrf token")
			return
		}
		req.Header.Set(csrfHeaderName, csrfToken)
	}
}

func (c *Client) transportError(ctx context.Context, method, endpoint string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warn().Str("method", method).Str("path", endpoint).Msg("[API] request timed out")
		return &Error{Kind: KindTimeout, Message: MsgTimeout, Err: err}
	}
	log.Warn().Err(err).Str("method", method).Str("path", endpoint).Msg("[API] network failure")
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
}

func (c *Client) httpError(ctx context.Context, method, endpoint string, resp *http.Response) error {
	var detail any
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes)); err == nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, &detail); err != nil {
			detail = nil
		}
	}

	apiErr := &Error{
		Kind:    KindHTTP,
		Status:  resp.StatusCode,
		Message: statusMessage(resp.StatusCode),
		Err:     fmt.Errorf("%s %s: status %d", method, endpoint, resp.StatusCode),
	}
	if !c.production {
		apiErr.Detail = detail
	}

	log.Warn().
		Str("method", method).
		Str("path", endpoint).
		Int("status", resp.StatusCode).
		Msg("[API] request failed")

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession(ctx)
	}
	return apiErr
}

// expireSession treats the local session as dead and sends the user to login.
func (c *Client) expireSession(ctx context.Context) {
	if c.creds != nil {
		if err := c.creds.RemoveToken(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("[API] failed to drop rejected session")
		}
	}
	c.navigator.Navigate(LoginPath)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type cancelOnClose struct {
	io.ReadCloser
	ctx    context.Context
	cancel context.CancelFunc
}

// Read reports a deadline hit mid-body as context.DeadlineExceeded whatever
// error the transport surfaced.
func (b *cancelOnClose) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && errors.Is(b.ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return n, err
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
