// Package network issues the page and media requests.
//
// A Client is built from an explicit Options value and passed to whoever needs it;
// there is no shared package-level client.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/internal/cache"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// maxPageSize caps how much of an HTML page is read into memory.
const maxPageSize = 32 << 20

// Options configures a Client.
type Options struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string

	Timeout time.Duration
	// Retries is how many extra attempts are made after a 5xx or transport error.
	Retries int
	// Backoff is multiplied by the attempt number before each retry.
	Backoff time.Duration

	// Fingerprint makes TLS handshakes look like Chrome's.
	Fingerprint bool

	// Cache stores successful page responses. Nil disables caching.
	Cache *cache.Store
}

// DefaultOptions returns browser-like headers and conservative timeouts.
func DefaultOptions() Options {
	return Options{
		UserAgent:      constant.UserAgent,
		Accept:         constant.Accept,
		AcceptLanguage: constant.AcceptLanguage,
		Timeout:        time.Minute,
		Retries:        3,
		Backoff:        time.Second,
	}
}

// OptionsFromConfig builds Options from the current configuration.
func OptionsFromConfig() Options {
	opts := DefaultOptions()
	opts.UserAgent = viper.GetString(key.HTTPUserAgent)
	opts.AcceptLanguage = viper.GetString(key.HTTPAcceptLanguage)
	opts.Timeout = time.Duration(viper.GetInt(key.HTTPTimeout)) * time.Second
	opts.Retries = viper.GetInt(key.HTTPRetries)
	opts.Fingerprint = viper.GetBool(key.HTTPFingerprint)

	if viper.GetBool(key.CachePages) {
		opts.Cache = cache.Pages(time.Duration(viper.GetInt(key.CacheTTL)) * time.Hour)
	}

	return opts
}

// Response is a fully read page.
type Response struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Client fetches pages and streams media.
type Client struct {
	http *http.Client
	// stream shares the transport but has no overall timeout,
	// since that would also cover reading a long media body.
	stream *http.Client
	opts   Options
}

// New builds a Client. Zero-valued header options fall back to the defaults.
func New(opts Options) *Client {
	defaults := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.Accept == "" {
		opts.Accept = defaults.Accept
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = defaults.AcceptLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}

	var transport http.RoundTripper = newTransport()
	if opts.Fingerprint {
		transport = newFingerprintTransport(opts.Timeout)
	}

	return &Client{
		http:   &http.Client{Timeout: opts.Timeout, Transport: transport},
		stream: &http.Client{Transport: transport},
		opts:   opts,
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", c.opts.Accept)
	req.Header.Set("Accept-Language", c.opts.AcceptLanguage)
	return req, nil
}

// Get fetches url and reads the whole body.
// Non-2xx responses are returned as *StatusError.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if c.opts.Cache != nil {
		var cached Response
		if c.opts.Cache.Get(cache.Key(url), &cached) {
			log.Debugf("cache hit for %s", url)
			return &cached, nil
		}
	}

	resp, err := c.do(ctx, c.http, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	page := &Response{URL: url, Status: resp.StatusCode, Body: body}
	if c.opts.Cache != nil {
		if err := c.opts.Cache.Set(cache.Key(url), page); err != nil {
			log.Warnf("cache write for %s: %s", url, err)
		}
	}

	return page, nil
}

// Stream copies the body of url into w and returns the number of bytes written.
// Only the response headers are bound by a timeout; the body is read until
// it ends or ctx is cancelled.
func (c *Client) Stream(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, c.stream, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("stream %s: %w", url, err)
	}
	return n, nil
}

// do performs the request, retrying 5xx responses and transport errors.
// The returned response always has a 2xx status.
func (c *Client) do(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			wait := c.opts.Backoff * time.Duration(attempt)
			log.Fields(logrus.Fields{"url": url, "attempt": attempt}).Debugf("retrying in %s: %s", wait, lastErr)
			if err := Sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		req, err := c.newRequest(ctx, url)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("get %s: %w", url, err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()

		lastErr = &StatusError{URL: url, Code: resp.StatusCode}
		if resp.StatusCode < 500 {
			return nil, lastErr
		}
	}

	return nil, lastErr
}
