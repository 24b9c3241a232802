package webview

import (
	"context"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
)

// KeepAlive keeps media in the tab playing while the window is hidden.
type KeepAlive struct {
	chrome *Chrome
}

// KeepAlive returns the background audio backend for this tab.
func (c *Chrome) KeepAlive() *KeepAlive {
	return &KeepAlive{chrome: c}
}

// Activate pretends the page has focus and pins its lifecycle to active.
func (k *KeepAlive) Activate(ctx context.Context) error {
	return k.chrome.run(ctx,
		emulation.SetFocusEmulationEnabled(true),
		page.SetWebLifecycleState(page.SetWebLifecycleStateStateActive),
	)
}

func (k *KeepAlive) Deactivate(ctx context.Context) error {
	return k.chrome.run(ctx, emulation.SetFocusEmulationEnabled(false))
}
