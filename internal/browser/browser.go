// Package browser provides URL openers for the apply flow.
package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/chromedp/chromedp"
)

// LogOpener prints URLs instead of opening them. It is the default for
// headless environments.
type LogOpener struct {
	w io.Writer

	mu     sync.Mutex
	opened []string
}

// NewLogOpener creates a LogOpener writing to w; nil discards output.
func NewLogOpener(w io.Writer) *LogOpener {
	if w == nil {
		w = io.Discard
	}
	return &LogOpener{w: w}
}

// Open records url.
func (o *LogOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	o.opened = append(o.opened, url)
	o.mu.Unlock()

	slog.Info("open url", "url", url)
	_, err := fmt.Fprintf(o.w, "Open: %s\n", url)
	return err
}

// Opened returns the URLs opened so far.
func (o *LogOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.opened))
	copy(out, o.opened)
	return out
}

// ChromeOpener opens every URL in a new tab of one Chrome instance.
type ChromeOpener struct {
	browserCtx context.Context

	mu      sync.Mutex
	cancels []context.CancelFunc
}

// NewChromeOpener starts a browser. Close releases it.
func NewChromeOpener(ctx context.Context, headless bool) (*ChromeOpener, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty Run launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &ChromeOpener{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelAlloc, cancelBrowser},
	}, nil
}

// Open navigates a new tab to url. The tab stays open until Close.
func (o *ChromeOpener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tabCtx, cancelTab := chromedp.NewContext(o.browserCtx)
	o.mu.Lock()
	o.cancels = append(o.cancels, cancelTab)
	o.mu.Unlock()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	slog.Info("opened tab", "url", url)
	return nil
}

// Done is closed when the browser context ends.
func (o *ChromeOpener) Done() <-chan struct{} {
	return o.browserCtx.Done()
}

// Close shuts the tabs and the browser down.
func (o *ChromeOpener) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.cancels) - 1; i >= 0; i-- {
		o.cancels[i]()
	}
	o.cancels = nil
}

// Window is a browser whose pages can outlive the plan that opened them.
type Window interface {
	Done() <-chan struct{}
	Close()
}

// Release closes w. With keepOpen it first waits until ctx is done or the
// browser ends on its own, so a visible window stays on screen.
func Release(ctx context.Context, w Window, keepOpen bool) {
	if keepOpen {
		select {
		case <-ctx.Done():
		case <-w.Done():
		}
	}
	w.Close()
}
