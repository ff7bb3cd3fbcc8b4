package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"asin-scout/pkg/models"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
	"github.com/gocolly/colly/v2/proxy"
)

// UserAgent is the fallback identity used when rotation is disabled.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher retrieves the raw product page body for one ASIN. A single
// attempt, no retries; any failure mode (connect, timeout, non-2xx) is
// reported as an error and left for the caller to map.
type Fetcher interface {
	Fetch(ctx context.Context, asin string) ([]byte, error)
}

// Options configure both fetcher implementations.
type Options struct {
	Marketplace string        // e.g. "www.amazon.in"
	Timeout     time.Duration // bound for the single network attempt
	MaxDelay    time.Duration // upper bound of the random politeness delay
	Proxies     []string      // optional round-robin proxy URLs
}

// HTTPFetcher performs a plain GET with browser-like headers through a
// per-call colly collector.
type HTTPFetcher struct {
	BaseURL string
	opts    Options
}

func NewHTTP(opts Options) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: fmt.Sprintf("https://%s/dp/", opts.Marketplace),
		opts:    opts,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, asin string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageURL := f.BaseURL + asin

	c, err := f.newCollector()
	if err != nil {
		return nil, err
	}

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var notFound bool
	c.OnError(func(r *colly.Response, _ error) {
		if r.StatusCode == http.StatusNotFound {
			notFound = true
		}
	})

	slog.Debug("Fetching product page", "url", pageURL)

	if err := c.Visit(pageURL); err != nil {
		if notFound {
			return nil, fmt.Errorf("%s: %w", pageURL, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	return body, nil
}

func (f *HTTPFetcher) newCollector() (*colly.Collector, error) {
	// Robots checking is off so a fetch stays a single network attempt.
	c := colly.NewCollector(
		colly.UserAgent(UserAgent),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(f.opts.Timeout)

	// Rotate the User-Agent per request and route through the
	// cloudflare bypass transport so a plain GET is less likely to be
	// answered with an interstitial.
	extensions.RandomUserAgent(c)
	c.WithTransport(cloudflarebp.AddCloudFlareByPass(http.DefaultTransport))

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	if f.opts.MaxDelay > 0 {
		err := c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 2,
			RandomDelay: f.opts.MaxDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set limit rule: %w", err)
		}
	}

	if len(f.opts.Proxies) > 0 {
		switcher, err := proxy.RoundRobinProxySwitcher(f.opts.Proxies...)
		if err != nil {
			return nil, fmt.Errorf("failed to build proxy switcher: %w", err)
		}
		c.SetProxyFunc(switcher)
	}

	return c, nil
}
