package sitegraph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/khanhnv2901/netrax/internal/shared/constants"
)

// BrowserFetcher renders homepages in a shared headless Chrome instance so
// links injected by JavaScript are visible to ExtractLinks. Each fetch opens
// its own tab. Call Close when done.
type BrowserFetcher struct {
	Wait    time.Duration // settle time after the body is ready
	Timeout time.Duration // per page; 0 means no extra limit

	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewBrowserFetcher prepares a headless browser allocator. Chrome itself is
// started lazily on the first fetch.
func NewBrowserFetcher(userAgent string, wait, timeout time.Duration) *BrowserFetcher {
	if userAgent == "" {
		userAgent = constants.BrowserUserAgent
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	return &BrowserFetcher{
		Wait:          wait,
		Timeout:       timeout,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}
}

// FetchPage implements PageFetcher.
func (f *BrowserFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", errors.New("page url is required")
	}
	if f.browserCtx == nil || f.browserCtx.Err() != nil {
		return "", errors.New("browser fetcher is closed")
	}

	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, f.Timeout)
		defer cancel()
	}

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	}
	if f.Wait > 0 {
		tasks = append(tasks, chromedp.Sleep(f.Wait))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (f *BrowserFetcher) Close() {
	if f.cancelBrowser != nil {
		f.cancelBrowser()
	}
	if f.cancelAlloc != nil {
		f.cancelAlloc()
	}
}
