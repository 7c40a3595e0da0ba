package viewer

import "github.com/hammamikhairi/ottomeasure/internal/domain"

// Toggle returns the mode a single "switch units" action moves to. From
// original it shows the system the recipe is not written in; from either
// converted mode it goes back to original.
func Toggle(mode domain.DisplayMode, detected domain.MeasurementSystem) domain.DisplayMode {
	if mode == domain.ModeOriginal {
		return domain.ModeFor(detected.Opposite())
	}
	return domain.ModeOriginal
}
