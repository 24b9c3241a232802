package navigation

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"
)

type nopView struct{}

func (nopView) Load(context.Context, string) error                     { return nil }
func (nopView) Reload(context.Context) error                           { return nil }
func (nopView) CanGoBack(context.Context) bool                         { return false }
func (nopView) CanGoForward(context.Context) bool                      { return false }
func (nopView) EstimatedProgress() float64                             { return 0 }
func (nopView) URL() string                                            { return "" }
func (nopView) EvaluateScript(context.Context, string) (string, error) { return "", nil }
func (nopView) Observe(func(Signal)) func()                            { return func() {} }

func (o *Observer) queued() int {
	o.queueMu.Lock()
	defer o.queueMu.Unlock()
	return len(o.queue)
}

func TestObserver_StopsQueueingAfterRun(t *testing.T) {
	obs := New(Params{View: nopView{}})

	obs.Post(Signal{Kind: NavigationStarted})
	assert.Equal(t, obs.queued(), 1, "signals before Run are kept")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NilError(t, obs.Run(ctx))
	assert.Equal(t, obs.queued(), 0)

	for i := 0; i < 100; i++ {
		obs.Post(Signal{Kind: URLChanged, URL: "https://late.example"})
	}
	assert.Equal(t, obs.queued(), 0, "late signals must not pile up")
}
