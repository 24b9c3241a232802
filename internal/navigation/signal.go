// Package navigation tracks the navigation state of the embedded web view.
//
// The Observer owns State on the goroutine running Run. Web view callbacks
// arrive on arbitrary goroutines and are handed over with Post.
package navigation

import (
	"context"
	"fmt"
)

// SignalKind enumerates the web view lifecycle callbacks the observer handles.
type SignalKind int

const (
	NavigationStarted SignalKind = iota
	NavigationFinished
	NavigationFailed
	ProvisionalNavigationFailed
	ContentProcessTerminated
	ProgressChanged
	URLChanged
)

func (k SignalKind) String() string {
	switch k {
	case NavigationStarted:
		return "started"
	case NavigationFinished:
		return "finished"
	case NavigationFailed:
		return "failed"
	case ProvisionalNavigationFailed:
		return "provisional-failed"
	case ContentProcessTerminated:
		return "content-process-terminated"
	case ProgressChanged:
		return "progress"
	case URLChanged:
		return "url-changed"
	default:
		return fmt.Sprintf("SignalKind(%d)", int(k))
	}
}

// Signal is one web view callback. Err is set for the failure kinds,
// Progress for ProgressChanged and URL for URLChanged.
type Signal struct {
	Kind     SignalKind
	Err      error
	Progress float64
	URL      string
}

// WebView is the browser surface the observer drives and listens to.
type WebView interface {
	Load(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	CanGoBack(ctx context.Context) bool
	CanGoForward(ctx context.Context) bool
	EstimatedProgress() float64
	URL() string
	EvaluateScript(ctx context.Context, script string) (string, error)
	// Observe registers fn for lifecycle signals and returns a function that
	// unregisters it.
	Observe(fn func(Signal)) (cancel func())
}

// State is a snapshot of the current navigation.
type State struct {
	IsLoading    bool
	Progress     float64
	CanGoBack    bool
	CanGoForward bool
	CurrentURL   string
	IsReaderMode bool
	LastError    error
}
