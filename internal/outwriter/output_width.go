package outwriter

import (
	"os"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"golang.org/x/term"
)

// GetMaxCellWidth returns how many characters one cell of a browse table may take,
// given the terminal width and the number of columns.
func GetMaxCellWidth(cfg *contract.Config, columns int) int {
	var termWidth int

	// Absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}
	if columns < 1 {
		columns = 1
	}

	// Borders and padding take about three characters per column
	available := termWidth/columns - 3
	if available < 8 {
		return 8
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncate shortens s to width characters, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
