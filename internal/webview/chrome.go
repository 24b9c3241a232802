// Package webview drives a Chrome window over the DevTools protocol and
// reports its lifecycle as navigation signals.
package webview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/nikbrunner/yuedu/internal/navigation"
)

// ErrNavigationFailed wraps the browser's error text for failed navigations.
var ErrNavigationFailed = errors.New("navigation failed")

// Options configures the browser process.
type Options struct {
	ExecPath    string // empty = auto-detect
	UserDataDir string // persistent profile, keeps cookies between runs
	Headless    bool
	Width       int
	Height      int
	Logger      *zap.Logger // optional, no-op if nil
}

// Chrome is a single browser tab. It implements navigation.WebView.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	log         *zap.Logger
	mainFrame   cdp.FrameID

	mu         sync.Mutex
	url        string
	docRequest network.RequestID

	progress progressEstimator

	obsMu     sync.Mutex
	observers map[int]func(navigation.Signal)
	nextID    int
}

var _ navigation.WebView = (*Chrome)(nil)

func buildAllocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
	)
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}
	if opts.Width > 0 && opts.Height > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	return allocOpts
}

// Launch starts Chrome and opens a blank tab. The browser lives until Close
// or until ctx is cancelled.
func Launch(ctx context.Context, opts Options) (*Chrome, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, buildAllocatorOptions(opts)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(log.Sugar().Debugf),
		chromedp.WithErrorf(log.Sugar().Errorf),
	)

	if err := chromedp.Run(tabCtx, page.SetLifecycleEventsEnabled(true)); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	c := newChrome(cdp.FrameID(chromedp.FromContext(tabCtx).Target.TargetID), log)
	c.ctx = tabCtx
	c.cancel = cancel
	c.allocCancel = allocCancel
	chromedp.ListenTarget(tabCtx, c.handleEvent)

	log.Info("chrome started", zap.Bool("headless", opts.Headless), zap.String("profile", opts.UserDataDir))
	return c, nil
}

func newChrome(mainFrame cdp.FrameID, log *zap.Logger) *Chrome {
	return &Chrome{
		log:       log.Named("webview"),
		mainFrame: mainFrame,
		observers: map[int]func(navigation.Signal){},
	}
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	err := chromedp.Cancel(c.ctx)
	c.cancel()
	c.allocCancel()
	return err
}

// Done is closed when the browser exits.
func (c *Chrome) Done() <-chan struct{} {
	return c.ctx.Done()
}

// run executes actions on the tab, cancelled early when ctx is done.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Load starts navigating to url. Failures reported by the browser arrive as
// ProvisionalNavigationFailed; the returned error covers protocol failures.
func (c *Chrome) Load(ctx context.Context, url string) error {
	c.log.Debug("load", zap.String("url", url))
	return c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errorText, _, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			c.emit(navigation.Signal{
				Kind: navigation.ProvisionalNavigationFailed,
				Err:  fmt.Errorf("%w: %s", ErrNavigationFailed, errorText),
			})
		}
		return nil
	}))
}

func (c *Chrome) Reload(ctx context.Context) error {
	return c.run(ctx, page.Reload())
}

func (c *Chrome) history(ctx context.Context) (int64, int) {
	var (
		current int64
		entries []*page.NavigationEntry
	)
	err := c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		current, entries, err = page.GetNavigationHistory().Do(ctx)
		return err
	}))
	if err != nil {
		c.log.Debug("navigation history", zap.Error(err))
		return 0, 0
	}
	return current, len(entries)
}

func (c *Chrome) CanGoBack(ctx context.Context) bool {
	current, _ := c.history(ctx)
	return current > 0
}

func (c *Chrome) CanGoForward(ctx context.Context) bool {
	current, n := c.history(ctx)
	return n > 0 && current < int64(n-1)
}

func (c *Chrome) EstimatedProgress() float64 {
	return c.progress.current()
}

func (c *Chrome) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

// EvaluateScript runs script in the page and returns its string result.
func (c *Chrome) EvaluateScript(ctx context.Context, script string) (string, error) {
	var res string
	if err := c.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return "", err
	}
	return res, nil
}

func (c *Chrome) Observe(fn func(navigation.Signal)) func() {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		delete(c.observers, id)
	}
}

func (c *Chrome) emit(sig navigation.Signal) {
	c.obsMu.Lock()
	fns := make([]func(navigation.Signal), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()

	for _, fn := range fns {
		fn(sig)
	}
}

func (c *Chrome) emitProgress(p float64) {
	c.emit(navigation.Signal{Kind: navigation.ProgressChanged, Progress: p})
}

func (c *Chrome) setURL(u string) {
	c.mu.Lock()
	c.url = u
	c.mu.Unlock()
	c.emit(navigation.Signal{Kind: navigation.URLChanged, URL: u})
}

// handleEvent runs on the chromedp event goroutine and must not block.
func (c *Chrome) handleEvent(ev any) {
	switch e := ev.(type) {
	case *page.EventFrameStartedLoading:
		if e.FrameID != c.mainFrame {
			return
		}
		c.emit(navigation.Signal{Kind: navigation.NavigationStarted})
		c.emitProgress(c.progress.reset())

	case *page.EventLifecycleEvent:
		if e.FrameID == c.mainFrame && e.Name == "DOMContentLoaded" {
			c.emitProgress(c.progress.domContentLoaded())
		}

	case *page.EventLoadEventFired:
		c.emitProgress(c.progress.loaded())
		c.emit(navigation.Signal{Kind: navigation.NavigationFinished})

	case *page.EventFrameNavigated:
		if e.Frame == nil || e.Frame.ID != c.mainFrame || e.Frame.ParentID != "" {
			return
		}
		c.setURL(e.Frame.URL + e.Frame.URLFragment)

	case *page.EventNavigatedWithinDocument:
		if e.FrameID == c.mainFrame {
			c.setURL(e.URL)
		}

	case *network.EventRequestWillBeSent:
		if e.Type == network.ResourceTypeDocument && e.FrameID == c.mainFrame {
			c.mu.Lock()
			c.docRequest = e.RequestID
			c.mu.Unlock()
		}
		c.emitProgress(c.progress.requestStarted())

	case *network.EventLoadingFinished:
		c.emitProgress(c.progress.requestDone())

	case *network.EventLoadingFailed:
		c.emitProgress(c.progress.requestDone())

		c.mu.Lock()
		isDocument := e.RequestID == c.docRequest
		c.mu.Unlock()
		if !isDocument || e.Canceled {
			return
		}
		c.emit(navigation.Signal{
			Kind: navigation.NavigationFailed,
			Err:  fmt.Errorf("%w: %s", ErrNavigationFailed, e.ErrorText),
		})

	case *inspector.EventTargetCrashed:
		c.log.Warn("renderer crashed")
		c.emit(navigation.Signal{Kind: navigation.ContentProcessTerminated})
	}
}
