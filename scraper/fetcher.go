package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"deal-finder/utils"
)

const scraperAPIEndpoint = "http://api.scraperapi.com"

// browserHeaders make direct requests look like a desktop browser.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Response is a fetched page.
type Response struct {
	StatusCode int
	Body       string
}

// OK reports whether the page came back with HTTP 200.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// Fetcher retrieves a page. render asks for JavaScript execution on pages
// that build their listings client-side.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string, render bool) (*Response, error)
}

// HTTPFetcher fetches pages directly, through the ScraperAPI proxy when a key
// is configured, or through a headless browser for render requests when one
// is attached.
type HTTPFetcher struct {
	client   *http.Client
	proxyKey string
	timeout  time.Duration
	renderer *BrowserRenderer
	logger   *utils.Logger
}

// NewHTTPFetcher creates a fetcher with a fixed per-request timeout.
func NewHTTPFetcher(proxyKey string, timeout time.Duration, renderer *BrowserRenderer, logger *utils.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		proxyKey: proxyKey,
		timeout:  timeout,
		renderer: renderer,
		logger:   logger,
	}
}

// Fetch implements Fetcher. Non-200 statuses are returned, not treated as errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string, render bool) (*Response, error) {
	if f.proxyKey == "" && render && f.renderer != nil {
		f.logger.Debug("[fetch] Rendering %s in headless browser", pageURL)
		return f.renderer.Render(ctx, pageURL, f.timeout)
	}

	target := pageURL
	if f.proxyKey != "" {
		target = ProxyURL(f.proxyKey, pageURL, render)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request for %s: %w", pageURL, err)
	}
	if f.proxyKey == "" {
		for k, v := range browserHeaders {
			req.Header.Set(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", pageURL, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// ProxyURL wraps pageURL in a ScraperAPI request. Rendering costs more credits
// and is only requested when asked for.
func ProxyURL(apiKey, pageURL string, render bool) string {
	q := url.Values{}
	q.Set("api_key", apiKey)
	q.Set("url", pageURL)
	if render {
		q.Set("render", "true")
	}
	return scraperAPIEndpoint + "?" + q.Encode()
}
