package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		percent       int
		want          int
	}{
		{"wide terminal uses percent", 120, 50, 60},   // 120*50/100
		{"clamps to max", 200, 50, 80},                // 100 > 80
		{"clamps to min", 90, 30, 40},                 // 27 < 40
		{"never wider than terminal", 42, 50, 38},     // min 40, but 42-4
		{"tiny terminal clamps to 1", 3, 50, 1},       // 3-4 < 1
		{"percent of phone-sized window", 60, 50, 40}, // 30 < 40
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, tt.percent, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d, %d) = %d, want %d",
					tt.terminalWidth, tt.percent, got, tt.want)
			}
		})
	}
}
