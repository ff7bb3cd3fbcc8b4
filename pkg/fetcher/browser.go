package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders the page in headless Chrome. Slower than the
// plain fetcher, but survives pages that gate content behind script
// execution or serve interstitials to bare HTTP clients.
type BrowserFetcher struct {
	BaseURL string
	opts    Options
}

func NewBrowser(opts Options) *BrowserFetcher {
	return &BrowserFetcher{
		BaseURL: fmt.Sprintf("https://%s/dp/", opts.Marketplace),
		opts:    opts,
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, asin string) ([]byte, error) {
	pageURL := f.BaseURL + asin

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, execOpts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	fetchCtx, cancelFetch := context.WithTimeout(browserCtx, f.opts.Timeout)
	defer cancelFetch()

	slog.Debug("Rendering product page", "url", pageURL)

	var html string
	err := chromedp.Run(fetchCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp execution failed for %s: %w", pageURL, err)
	}

	return []byte(html), nil
}
