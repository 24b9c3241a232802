package layout

// CalculatePaneHeight computes the content height of the list pane.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidth computes the width of the list and status panes.
func CalculatePaneWidth(terminalWidth int, cfg PaneConfig) int {
	width := terminalWidth - cfg.WidthOffset
	if width < cfg.MinWidth {
		return cfg.MinWidth
	}
	return width
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// CalculateProgressWidth sizes the progress bar to the pane, capped at max.
func CalculateProgressWidth(paneWidth int, cfg StatusConfig) int {
	width := paneWidth - 2
	if width > cfg.ProgressMaxWidth {
		width = cfg.ProgressMaxWidth
	}
	if width < 1 {
		return 1
	}
	return width
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
