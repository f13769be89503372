// Package whoscored scrapes team, player and match data out of the
// whoscored.com markup and its statistics feed. The site exposes no
// stable API; everything here is built on free-text search, id
// extraction from profile links and mining of configuration objects
// embedded in inline scripts.
package whoscored

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"footylens-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/panjf2000/ants/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

const defaultBaseURL = "https://www.whoscored.com"
const defaultWorkers = 8

// ErrNotFound means the search page came back fine but no result row
// qualified. It is an expected outcome, callers surface it as an
// absent result rather than a failure.
var ErrNotFound = errors.New("no matching search result")

// MalformedURLError means a resolved profile link did not carry an id
// where the site always puts one. This is a data-contract violation,
// not a transient fetch problem, so it propagates as a hard error.
type MalformedURLError struct {
	URL     string
	Pattern string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("url %q does not match %q", e.URL, e.Pattern)
}

// UpstreamError wraps any network error, non-2xx response or missing
// expected payload during extraction. It carries enough context to
// diagnose from logs without a retry.
type UpstreamError struct {
	Subject string
	URL     string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure for %s (%s): %v", e.Subject, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL *url.URL
	http    *resty.Client
	pool    *ants.Pool
}

type ClientOptions struct {
	// defaults to the live site
	BaseURL string
	// cap on concurrent fetches against the source, defaults to 8
	Workers int
	// when set, every HTTP exchange is written here for debugging
	DumpDir string
}

func NewClient(opts ClientOptions) (*Client, error) {
	rawBase := opts.BaseURL
	if rawBase == "" {
		rawBase = defaultBaseURL
	}
	baseURL, err := url.Parse(rawBase)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(rawBase)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/whoscored/http")

	if opts.DumpDir != "" {
		dump, err := telemetry.NewFilesystemDump(opts.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("create http dump directory: %w", err)
		}
		telemetry.DumpTransactions(client, dump)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create fetch pool: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		http:    client,
		pool:    pool,
	}, nil
}

func (c *Client) Close() {
	c.pool.Release()
}

type fetchResult struct {
	body []byte
	err  error
}

// fetch runs a GET on the bounded worker pool so the calling goroutine
// is never the one blocked on the network. Cancelling the context
// abandons the in-flight call, nothing needs cleaning up afterwards.
func (c *Client) fetch(ctx context.Context, link string) ([]byte, error) {
	out := make(chan fetchResult, 1)
	err := c.pool.Submit(func() {
		res, err := c.http.R().
			SetContext(ctx).
			Get(link)
		if err != nil {
			out <- fetchResult{nil, err}
			return
		}
		if res.IsError() {
			out <- fetchResult{nil, fmt.Errorf("got status %s", res.Status())}
			return
		}
		out <- fetchResult{res.Body(), nil}
	})
	if err != nil {
		return nil, fmt.Errorf("submit fetch to pool: %w", err)
	}

	select {
	case r := <-out:
		return r.body, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
