package units

import "github.com/hammamikhairi/ottomeasure/internal/domain"

// Tally counts how many units classify as imperial and as metric. Count
// and unknown units are ignored.
func Tally(units []string) (imperial, metric int) {
	for _, u := range units {
		switch Classify(u) {
		case domain.UnitImperial:
			imperial++
		case domain.UnitMetric:
			metric++
		}
	}
	return imperial, metric
}

// DetectSystem returns the system most of the units belong to. Imperial
// wins ties, including the empty list.
func DetectSystem(units []string) domain.MeasurementSystem {
	imperial, metric := Tally(units)
	if imperial >= metric {
		return domain.SystemImperial
	}
	return domain.SystemMetric
}

// DetectIngredients runs DetectSystem over an ingredient list.
func DetectIngredients(ings []domain.Ingredient) domain.MeasurementSystem {
	us := make([]string, len(ings))
	for i, ing := range ings {
		us[i] = ing.Unit
	}
	return DetectSystem(us)
}
