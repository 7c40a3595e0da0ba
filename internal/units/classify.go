// Package units converts ingredient quantities between the imperial and
// metric systems for display, and infers which system a recipe mostly uses.
//
// Everything here is pure: no I/O, no logging, no mutable state. The unit
// sets and conversion tables are built once at init and never written
// again, so any number of goroutines may call into the package.
package units

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// Canonical unit vocabularies. Classification and the table completeness
// check both read these lists; nothing else names units inline.
var (
	imperialUnits = []string{
		"cup", "cups",
		"tablespoon", "tablespoons", "tbsp",
		"teaspoon", "teaspoons", "tsp",
		"fluid ounce", "fluid ounces", "fl oz",
		"pint", "pints", "pt",
		"quart", "quarts", "qt",
		"gallon", "gallons", "gal",
		"ounce", "ounces", "oz",
		"pound", "pounds", "lb", "lbs",
	}

	metricUnits = []string{
		"ml", "milliliter", "milliliters", "millilitre", "millilitres",
		"l", "liter", "liters", "litre", "litres",
		"g", "gram", "grams",
		"kg", "kilogram", "kilograms",
	}

	countUnits = []string{
		"piece", "pieces",
		"pinch", "pinches",
		"dash", "dashes",
		"whole",
		"clove", "cloves",
		"slice", "slices",
		"to taste", "to_taste",
	}
)

var classes = func() map[string]domain.UnitClass {
	m := make(map[string]domain.UnitClass, len(imperialUnits)+len(metricUnits)+len(countUnits))
	for _, u := range imperialUnits {
		m[u] = domain.UnitImperial
	}
	for _, u := range metricUnits {
		m[u] = domain.UnitMetric
	}
	for _, u := range countUnits {
		m[u] = domain.UnitCount
	}
	return m
}()

// Token normalises a raw unit string into a lookup key: case-folded and
// trimmed. No other rewriting is done; "Tbsp." stays unknown.
func Token(unit string) string {
	// A Caser carries state, so each call gets its own.
	return strings.TrimSpace(cases.Fold().String(unit))
}

// Classify reports which vocabulary the unit belongs to.
func Classify(unit string) domain.UnitClass {
	return classes[Token(unit)]
}

// IsCount reports whether the unit names discrete items.
func IsCount(unit string) bool {
	return Classify(unit) == domain.UnitCount
}

// Units returns a copy of the canonical tokens of one class, in
// declaration order. UnitUnknown yields nil.
func Units(class domain.UnitClass) []string {
	var src []string
	switch class {
	case domain.UnitImperial:
		src = imperialUnits
	case domain.UnitMetric:
		src = metricUnits
	case domain.UnitCount:
		src = countUnits
	default:
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
