// Package api is the client for the external menu REST API.  Public reads
// are anonymous; admin calls forward the administrator's session cookie,
// which the API verifies.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SessionCookie is the cookie name the API issues and expects.
const SessionCookie = "admin_session"

const maxBody = 4 << 20

// Client talks to one API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	log        *zap.Logger
}

// New returns a Client for baseURL (e.g. "http://localhost:8000").
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      DefaultRetry,
		log:        log.Named("api"),
	}
}

// WithRetry returns a copy of c using cfg.
func (c *Client) WithRetry(cfg RetryConfig) *Client {
	cp := *c
	cp.retry = cfg
	return &cp
}

type call struct {
	method  string
	path    string
	query   url.Values
	session string
	body    any
}

// send performs the call and decodes a 2xx JSON body into out (when out is
// non-nil).  The returned response has its body closed; headers and
// cookies remain readable.
func (c *Client) send(ctx context.Context, in call, out any) (*http.Response, error) {
	var payload []byte
	if in.body != nil {
		b, err := json.Marshal(in.body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		payload = b
	}

	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	retry := c.retry
	if in.method != http.MethodGet && in.method != http.MethodHead {
		// a write may have landed before the 5xx; replaying it is not safe
		retry.MaxAttempts = 1
	}

	resp, err := doWithRetry(ctx, c.httpClient, retry, c.log, func() (*http.Request, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, in.method, target, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if in.session != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: in.session})
		}
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", in.method, in.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", in.method, in.path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, statusError(resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, fmt.Errorf("%s %s: decode: %w", in.method, in.path, err)
		}
	}
	return resp, nil
}
