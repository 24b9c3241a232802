package navigation

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"
)

// Observer turns web view signals into State.
type Observer struct {
	view         WebView
	log          *zap.Logger
	onState      func(State)
	onThemeColor func(string)

	queueMu sync.Mutex
	queue   []Signal
	stopped bool // Run has returned; Post drops signals
	wake    chan struct{}
	colors  chan string

	stateMu sync.RWMutex
	state   State

	attachMu sync.Mutex
	detach   func()
}

// Params holds parameters for creating an Observer.
type Params struct {
	View   WebView
	Logger *zap.Logger // optional, no-op if nil

	// OnState receives every published state. Called on the Run goroutine.
	OnState func(State)
	// OnThemeColor receives "#rrggbb", or "" when the page has none.
	// Called on the Run goroutine.
	OnThemeColor func(string)
}

// New creates an Observer. Call Attach to start receiving signals and Run to
// process them.
func New(params Params) *Observer {
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{
		view:         params.View,
		log:          log.Named("navigation"),
		onState:      params.OnState,
		onThemeColor: params.OnThemeColor,
		wake:         make(chan struct{}, 1),
		colors:       make(chan string, 1),
	}
}

// Attach registers the observer with the web view. Attaching again replaces
// the previous registration.
func (o *Observer) Attach() {
	o.attachMu.Lock()
	defer o.attachMu.Unlock()

	if o.detach != nil {
		o.detach()
	}
	o.detach = o.view.Observe(o.Post)
}

// Detach unregisters the observer from the web view.
func (o *Observer) Detach() {
	o.attachMu.Lock()
	defer o.attachMu.Unlock()

	if o.detach != nil {
		o.detach()
		o.detach = nil
	}
}

// Post queues sig for the Run goroutine. It never blocks. Signals posted
// before Run are kept; once Run has returned, signals are dropped.
func (o *Observer) Post(sig Signal) {
	o.queueMu.Lock()
	if o.stopped {
		o.queueMu.Unlock()
		return
	}
	o.queue = append(o.queue, sig)
	o.queueMu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// State returns the latest published state.
func (o *Observer) State() State {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.state
}

// Reload asks the web view to reload the current page.
func (o *Observer) Reload(ctx context.Context) error {
	o.log.Debug("reload requested")
	return o.view.Reload(ctx)
}

// Run processes signals until ctx is done.
func (o *Observer) Run(ctx context.Context) error {
	defer o.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-o.wake:
			for _, sig := range o.drain() {
				o.handle(ctx, sig)
			}
		case color := <-o.colors:
			if o.onThemeColor != nil {
				o.onThemeColor(color)
			}
		}
	}
}

func (o *Observer) stop() {
	o.queueMu.Lock()
	defer o.queueMu.Unlock()
	o.stopped = true
	o.queue = nil
}

func (o *Observer) drain() []Signal {
	o.queueMu.Lock()
	defer o.queueMu.Unlock()

	sigs := o.queue
	o.queue = nil
	return sigs
}

func (o *Observer) handle(ctx context.Context, sig Signal) {
	st := o.State()

	switch sig.Kind {
	case NavigationStarted:
		st.IsLoading = true

	case NavigationFinished:
		st.IsLoading = false
		st.CanGoBack = o.view.CanGoBack(ctx)
		st.CanGoForward = o.view.CanGoForward(ctx)
		st.Progress = clampProgress(o.view.EstimatedProgress())
		if u := o.view.URL(); u != "" {
			st.CurrentURL = u
		}
		st.IsReaderMode = IsReaderMode(st.CurrentURL)
		o.extractThemeColor(ctx)

	case NavigationFailed, ProvisionalNavigationFailed:
		st.IsLoading = false
		st.LastError = sig.Err
		o.log.Warn("navigation failed", zap.Stringer("kind", sig.Kind), zap.Error(sig.Err))

	case ProgressChanged:
		st.Progress = clampProgress(sig.Progress)

	case URLChanged:
		if sig.URL == "" {
			return
		}
		st.CurrentURL = sig.URL
		st.IsReaderMode = IsReaderMode(sig.URL)
		o.extractThemeColor(ctx)

	case ContentProcessTerminated:
		o.log.Warn("web content process terminated, reloading")
		go func() {
			if err := o.view.Reload(ctx); err != nil {
				o.log.Warn("reload after termination failed", zap.Error(err))
			}
		}()
		return

	default:
		o.log.Debug("ignoring unknown signal", zap.Stringer("kind", sig.Kind))
		return
	}

	o.publish(st)
}

func (o *Observer) publish(st State) {
	o.stateMu.Lock()
	o.state = st
	o.stateMu.Unlock()

	if o.onState != nil {
		o.onState(st)
	}
}

// extractThemeColor evaluates the theme color script in the background and
// delivers the result to the Run goroutine. Overlapping results are not
// ordered; the last one delivered wins.
func (o *Observer) extractThemeColor(ctx context.Context) {
	go func() {
		raw, err := o.view.EvaluateScript(ctx, ThemeColorScript)
		color := ""
		if err != nil {
			o.log.Debug("theme color extraction failed", zap.Error(err))
		} else {
			color = NormalizeThemeColor(raw)
		}

		select {
		case o.colors <- color:
		case <-ctx.Done():
		}
	}()
}

func clampProgress(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
