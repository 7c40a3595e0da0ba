package units

import (
	"errors"
	"fmt"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// ErrMissingEntry is reported by CheckTables for a classified unit that
// has no row in the table for the opposite system.
var ErrMissingEntry = errors.New("no conversion entry")

// Entry is one directed conversion row: From * Factor = To.
type Entry struct {
	From   string
	To     string
	Factor float64
}

// Table maps a unit token to its conversion row for one direction.
type Table map[string]Entry

// Tables holds both directions. The two are independent: the metric to
// imperial constants are rounded on their own and are not inverses of the
// imperial to metric ones.
type Tables struct {
	ToMetric   Table
	ToImperial Table
}

// For returns the table used when converting into target.
func (t Tables) For(target domain.MeasurementSystem) Table {
	if target == domain.SystemMetric {
		return t.ToMetric
	}
	return t.ToImperial
}

// row expands one factor to every alias of the source unit.
func row(to string, factor float64, from ...string) []Entry {
	out := make([]Entry, 0, len(from))
	for _, f := range from {
		out = append(out, Entry{From: f, To: to, Factor: factor})
	}
	return out
}

// identity maps each unit onto itself with factor 1.
func identity(from ...string) []Entry {
	out := make([]Entry, 0, len(from))
	for _, f := range from {
		out = append(out, Entry{From: f, To: f, Factor: 1})
	}
	return out
}

func buildTable(groups ...[]Entry) Table {
	t := make(Table)
	for _, g := range groups {
		for _, e := range g {
			t[e.From] = e
		}
	}
	return t
}

var builtin = Tables{
	ToMetric: buildTable(
		// Volume
		row("ml", 236.588, "cup", "cups"),
		row("ml", 14.787, "tablespoon", "tablespoons", "tbsp"),
		row("ml", 4.929, "teaspoon", "teaspoons", "tsp"),
		row("ml", 29.574, "fluid ounce", "fluid ounces", "fl oz"),
		row("ml", 473.176, "pint", "pints", "pt"),
		row("l", 0.946, "quart", "quarts", "qt"),
		row("l", 3.785, "gallon", "gallons", "gal"),
		// Weight
		row("g", 28.35, "ounce", "ounces", "oz"),
		row("g", 453.592, "pound", "pounds", "lb", "lbs"),
		identity(countUnits...),
	),
	ToImperial: buildTable(
		// Volume
		row("cup", 0.00423, "ml", "milliliter", "milliliters", "millilitre", "millilitres"),
		row("quart", 1.057, "l", "liter", "liters", "litre", "litres"),
		// Weight
		row("oz", 0.0353, "g", "gram", "grams"),
		row("lb", 2.205, "kg", "kilogram", "kilograms"),
		identity(countUnits...),
	),
}

// Builtin returns a copy of the built-in tables. Mutating the copy does
// not affect conversion.
func Builtin() Tables {
	return Tables{
		ToMetric:   cloneTable(builtin.ToMetric),
		ToImperial: cloneTable(builtin.ToImperial),
	}
}

func cloneTable(t Table) Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Lookup returns the built-in conversion row for unit into target.
func Lookup(target domain.MeasurementSystem, unit string) (Entry, bool) {
	return defaultConverter.Lookup(target, unit)
}

// CheckTables verifies that every imperial unit has a metric row, every
// metric unit an imperial row, and every count unit a row in both.
func CheckTables() error {
	return defaultConverter.CheckTables()
}

func checkTables(t Tables) error {
	var errs []error
	for _, u := range imperialUnits {
		if _, ok := t.ToMetric[u]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q -> metric", ErrMissingEntry, u))
		}
	}
	for _, u := range metricUnits {
		if _, ok := t.ToImperial[u]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q -> imperial", ErrMissingEntry, u))
		}
	}
	for _, u := range countUnits {
		for _, target := range []domain.MeasurementSystem{domain.SystemMetric, domain.SystemImperial} {
			if _, ok := t.For(target)[u]; !ok {
				errs = append(errs, fmt.Errorf("%w: %q -> %s", ErrMissingEntry, u, target))
			}
		}
	}
	return errors.Join(errs...)
}
