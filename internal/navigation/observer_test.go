package navigation_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/poll"

	"github.com/nikbrunner/yuedu/internal/navigation"
)

// fakeView is a scripted WebView.
type fakeView struct {
	mu        sync.Mutex
	url       string
	progress  float64
	back      bool
	forward   bool
	theme     string
	themeErr  error
	loads     []string
	reloads   int
	observers map[int]func(navigation.Signal)
	nextID    int
}

func newFakeView() *fakeView {
	return &fakeView{observers: map[int]func(navigation.Signal){}}
}

func (v *fakeView) Load(_ context.Context, url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loads = append(v.loads, url)
	return nil
}

func (v *fakeView) Reload(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reloads++
	return nil
}

func (v *fakeView) CanGoBack(context.Context) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.back
}

func (v *fakeView) CanGoForward(context.Context) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.forward
}

func (v *fakeView) EstimatedProgress() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.progress
}

func (v *fakeView) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.url
}

func (v *fakeView) EvaluateScript(context.Context, string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.theme, v.themeErr
}

func (v *fakeView) Observe(fn func(navigation.Signal)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.observers[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.observers, id)
	}
}

func (v *fakeView) emit(sig navigation.Signal) {
	v.mu.Lock()
	fns := make([]func(navigation.Signal), 0, len(v.observers))
	for _, fn := range v.observers {
		fns = append(fns, fn)
	}
	v.mu.Unlock()
	for _, fn := range fns {
		fn(sig)
	}
}

func (v *fakeView) set(fn func(v *fakeView)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v)
}

func (v *fakeView) reloadCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reloads
}

func (v *fakeView) observerCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}

// recorder collects callbacks from the Run goroutine.
type recorder struct {
	mu     sync.Mutex
	states []navigation.State
	colors []string
}

func (r *recorder) onState(st navigation.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, st)
}

func (r *recorder) onThemeColor(c string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colors = append(r.colors, c)
}

func (r *recorder) stateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *recorder) lastColor() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.colors) == 0 {
		return "", false
	}
	return r.colors[len(r.colors)-1], true
}

func startObserver(t *testing.T, view *fakeView, logger *zap.Logger) (*navigation.Observer, *recorder) {
	t.Helper()
	rec := &recorder{}
	obs := navigation.New(navigation.Params{
		View:         view,
		Logger:       logger,
		OnState:      rec.onState,
		OnThemeColor: rec.onThemeColor,
	})
	obs.Attach()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = obs.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		obs.Detach()
	})
	return obs, rec
}

func waitForStates(t *testing.T, rec *recorder, n int) {
	t.Helper()
	poll.WaitOn(t, func(poll.LogT) poll.Result {
		if got := rec.stateCount(); got < n {
			return poll.Continue("%d of %d states published", got, n)
		}
		return poll.Success()
	}, poll.WithTimeout(2*time.Second), poll.WithDelay(5*time.Millisecond))
}

func TestObserver_StartedThenFinished(t *testing.T) {
	view := newFakeView()
	obs, rec := startObserver(t, view, nil)

	view.emit(navigation.Signal{Kind: navigation.NavigationStarted})
	waitForStates(t, rec, 1)
	assert.Assert(t, obs.State().IsLoading)

	view.set(func(v *fakeView) {
		v.url = "https://example.com/page"
		v.progress = 1
		v.back = true
	})
	view.emit(navigation.Signal{Kind: navigation.NavigationFinished})
	waitForStates(t, rec, 2)

	st := obs.State()
	assert.Assert(t, !st.IsLoading)
	assert.Equal(t, st.CurrentURL, "https://example.com/page")
	assert.Equal(t, st.Progress, 1.0)
	assert.Assert(t, st.CanGoBack)
	assert.Assert(t, !st.CanGoForward)
	assert.Assert(t, !st.IsReaderMode)
}

func TestObserver_FinishedKeepsURLWhenViewHasNone(t *testing.T) {
	view := newFakeView()
	obs, rec := startObserver(t, view, nil)

	view.emit(navigation.Signal{Kind: navigation.URLChanged, URL: "https://example.com/a"})
	waitForStates(t, rec, 1)

	view.emit(navigation.Signal{Kind: navigation.NavigationFinished})
	waitForStates(t, rec, 2)
	assert.Equal(t, obs.State().CurrentURL, "https://example.com/a")
}

func TestObserver_Failure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	view := newFakeView()
	obs, rec := startObserver(t, view, zap.New(core))

	view.emit(navigation.Signal{Kind: navigation.URLChanged, URL: "https://example.com/"})
	view.emit(navigation.Signal{Kind: navigation.NavigationStarted})
	failure := errors.New("net::ERR_NAME_NOT_RESOLVED")
	view.emit(navigation.Signal{Kind: navigation.ProvisionalNavigationFailed, Err: failure})
	waitForStates(t, rec, 3)

	st := obs.State()
	assert.Assert(t, !st.IsLoading)
	assert.Assert(t, errors.Is(st.LastError, failure))
	assert.Equal(t, st.CurrentURL, "https://example.com/", "failure leaves the URL alone")
	assert.Equal(t, logs.FilterMessage("navigation failed").Len(), 1)
}

func TestObserver_ProgressIsClamped(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.42, 0.42},
		{-1, 0},
		{3, 1},
		{math.NaN(), 0},
	}

	view := newFakeView()
	obs, rec := startObserver(t, view, nil)

	for i, tt := range tests {
		view.emit(navigation.Signal{Kind: navigation.ProgressChanged, Progress: tt.in})
		waitForStates(t, rec, i+1)
		assert.Equal(t, obs.State().Progress, tt.want)
	}
}

func TestObserver_URLChangedUpdatesReaderMode(t *testing.T) {
	view := newFakeView()
	obs, rec := startObserver(t, view, nil)

	view.emit(navigation.Signal{Kind: navigation.URLChanged, URL: "https://x.com/reader?bookUrl=1"})
	waitForStates(t, rec, 1)
	assert.Assert(t, obs.State().IsReaderMode)

	view.emit(navigation.Signal{Kind: navigation.URLChanged, URL: "https://x.com/library"})
	waitForStates(t, rec, 2)
	assert.Assert(t, !obs.State().IsReaderMode)
}

func TestObserver_ContentProcessTerminatedReloads(t *testing.T) {
	view := newFakeView()
	obs, _ := startObserver(t, view, nil)

	view.emit(navigation.Signal{Kind: navigation.ContentProcessTerminated})

	poll.WaitOn(t, func(poll.LogT) poll.Result {
		if view.reloadCount() == 1 {
			return poll.Success()
		}
		return poll.Continue("waiting for reload")
	}, poll.WithTimeout(2*time.Second))
	assert.Assert(t, obs.State().LastError == nil, "termination is not surfaced as an error")
}

func TestObserver_ExplicitReload(t *testing.T) {
	view := newFakeView()
	obs := navigation.New(navigation.Params{View: view})

	assert.NilError(t, obs.Reload(context.Background()))
	assert.Equal(t, view.reloadCount(), 1)
	assert.DeepEqual(t, obs.State(), navigation.State{})
}

func TestObserver_ThemeColor(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		err   error
		want  string
	}{
		{"meta color", "#336699", nil, "#336699"},
		{"computed background", "rgb(255, 255, 255)", nil, "#ffffff"},
		{"transparent is unset", "rgba(0, 0, 0, 0)", nil, ""},
		{"script error is unset", "", errors.New("no page"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newFakeView()
			view.set(func(v *fakeView) {
				v.theme = tt.theme
				v.themeErr = tt.err
			})
			_, rec := startObserver(t, view, nil)

			view.emit(navigation.Signal{Kind: navigation.NavigationFinished})

			poll.WaitOn(t, func(poll.LogT) poll.Result {
				if _, ok := rec.lastColor(); ok {
					return poll.Success()
				}
				return poll.Continue("waiting for theme color")
			}, poll.WithTimeout(2*time.Second))

			got, _ := rec.lastColor()
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestObserver_Detach(t *testing.T) {
	view := newFakeView()
	obs := navigation.New(navigation.Params{View: view})

	obs.Attach()
	obs.Attach()
	assert.Equal(t, view.observerCount(), 1, "re-attaching replaces the registration")

	obs.Detach()
	assert.Equal(t, view.observerCount(), 0)
	obs.Detach()
}

func TestObserver_PostBeforeRun(t *testing.T) {
	view := newFakeView()
	rec := &recorder{}
	obs := navigation.New(navigation.Params{View: view, OnState: rec.onState})

	obs.Post(navigation.Signal{Kind: navigation.NavigationStarted})
	obs.Post(navigation.Signal{Kind: navigation.ProgressChanged, Progress: 0.3})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = obs.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitForStates(t, rec, 2)
	st := obs.State()
	assert.Assert(t, st.IsLoading)
	assert.Equal(t, st.Progress, 0.3)
}
