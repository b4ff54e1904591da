// Package authclient wraps an HTTP client for callers of the storefront API.
// It carries the auth cookies in a jar and, when a response signals that the
// access token expired, refreshes the session and replays the request exactly
// once. Requests to other origins pass through untouched.
package authclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"
)

// ErrLoginRequired is surfaced when the server rejects a refresh attempt.
// There is no second retry; the caller has to authenticate again.
var ErrLoginRequired = errors.New("login required")

const expiredMarker = "token_expired"

// Client is a cookie-carrying HTTP client bound to one API origin.
// Concurrent requests that all observe an expired access token share a
// single in-flight refresh call.
type Client struct {
	base    *url.URL
	hc      *http.Client
	refresh singleflight.Group
}

// New builds a Client for the API at baseURL. The underlying http.Client may
// be nil, in which case a default one is used; either way it is given a
// fresh cookie jar.
func New(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	hc.Jar = jar
	return &Client{base: u, hc: hc}, nil
}

// Do sends req. If the response carries the token-expired challenge, the
// session is refreshed and the request replayed once with the same method,
// body and headers. A failed refresh returns ErrLoginRequired.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if !c.sameOrigin(req.URL) {
		return c.hc.Do(req)
	}

	if err := bufferBody(req); err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	if !isExpirySignal(res) {
		return res, nil
	}
	drain(res)

	if err := c.refreshSession(req); err != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return c.hc.Do(retry)
}

// Get is a convenience wrapper for cookie-authenticated GETs against the API.
func (c *Client) Get(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.base.JoinPath(path).String(), nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func (c *Client) sameOrigin(u *url.URL) bool {
	return u.Scheme == c.base.Scheme && u.Host == c.base.Host
}

// refreshSession performs at most one refresh call per burst of expired
// requests; concurrent callers wait for the shared result.
func (c *Client) refreshSession(orig *http.Request) error {
	_, err, _ := c.refresh.Do("refresh", func() (interface{}, error) {
		req, err := http.NewRequestWithContext(orig.Context(), http.MethodPost,
			c.base.JoinPath("/auth/refresh").String(), nil)
		if err != nil {
			return nil, err
		}
		res, err := c.hc.Do(req)
		if err != nil {
			return nil, err
		}
		drain(res)
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: refresh rejected with status %d", ErrLoginRequired, res.StatusCode)
		}
		return nil, nil
	})
	if err != nil && !errors.Is(err, ErrLoginRequired) {
		return fmt.Errorf("%w: %v", ErrLoginRequired, err)
	}
	return err
}

func isExpirySignal(res *http.Response) bool {
	return res.StatusCode == http.StatusUnauthorized &&
		strings.Contains(res.Header.Get("WWW-Authenticate"), expiredMarker)
}

// bufferBody makes req.Body replayable when the caller did not provide
// GetBody (e.g. a bare io.Reader body).
func bufferBody(req *http.Request) error {
	if req.Body == nil || req.GetBody != nil {
		return nil
	}
	b, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(b))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	return nil
}

func drain(res *http.Response) {
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
