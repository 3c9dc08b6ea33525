package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"deal-finder/utils"
)

// settleDelay gives client-side frameworks time to populate the page.
const settleDelay = 5 * time.Second

// BrowserRenderer loads pages in a shared headless Chrome instance.
type BrowserRenderer struct {
	logger      *utils.Logger
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancelTab   context.CancelFunc
}

// NewBrowserRenderer starts a headless browser allocator. chromeBin may be
// empty, in which case well-known install locations are searched.
func NewBrowserRenderer(chromeBin string, logger *utils.Logger) *BrowserRenderer {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(browserHeaders["User-Agent"]),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	// Suppress chromedp log noise
	browserCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so each Render opens a tab in it instead of
	// launching its own instance.
	if err := chromedp.Run(browserCtx); err != nil {
		logger.Warn("[browser] Could not start browser: %v", err)
	}

	return &BrowserRenderer{
		logger:      logger,
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancelTab:   cancelTab,
	}
}

// Render navigates to pageURL and returns the rendered document HTML. A page
// that loads is reported as status 200.
func (b *BrowserRenderer) Render(ctx context.Context, pageURL string, timeout time.Duration) (*Response, error) {
	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	// Stop the tab early if the caller's context ends first.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser render %s: %w", pageURL, err)
	}
	return &Response{StatusCode: 200, Body: html}, nil
}

// Close shuts the browser down.
func (b *BrowserRenderer) Close() {
	b.cancelTab()
	b.cancelAlloc()
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
