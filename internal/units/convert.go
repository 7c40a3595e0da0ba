package units

import (
	"math"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// Outcome records which path a conversion took.
type Outcome int

const (
	// OutcomeConverted means the amount was scaled into the target system.
	OutcomeConverted Outcome = iota
	// OutcomeCount means a count unit was rounded and kept.
	OutcomeCount
	// OutcomeUnknown means the unit is in no vocabulary and passed through.
	OutcomeUnknown
	// OutcomeSameSystem means the unit already belongs to the target.
	OutcomeSameSystem
	// OutcomeMissingEntry means the unit is classified but its table has no
	// row. Unreachable with the built-in tables.
	OutcomeMissingEntry
)

// String returns a short label, used as a metrics label value.
func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeCount:
		return "count"
	case OutcomeUnknown:
		return "unknown"
	case OutcomeSameSystem:
		return "same_system"
	case OutcomeMissingEntry:
		return "missing_entry"
	default:
		return "invalid"
	}
}

// PassThrough reports whether the unit was left as the caller gave it.
func (o Outcome) PassThrough() bool {
	return o != OutcomeConverted
}

// Result is the display-ready measurement plus how it was produced.
type Result struct {
	Measurement domain.Measurement
	Class       domain.UnitClass
	Outcome     Outcome
}

// Option configures a Converter.
type Option func(*Converter)

// WithTables replaces the built-in conversion tables.
func WithTables(t Tables) Option {
	return func(c *Converter) {
		c.tables = t
	}
}

// Converter applies classification, lookup, rescaling and formatting to
// single measurements. The zero value is not usable; call NewConverter.
type Converter struct {
	tables Tables
}

// NewConverter creates a converter over the built-in tables unless
// WithTables says otherwise.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{tables: builtin}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultConverter = NewConverter()

// Lookup returns the conversion row for unit into target.
func (c *Converter) Lookup(target domain.MeasurementSystem, unit string) (Entry, bool) {
	e, ok := c.tables.For(target)[Token(unit)]
	return e, ok
}

// CheckTables runs the completeness check against this converter's tables.
func (c *Converter) CheckTables() error {
	return checkTables(c.tables)
}

// Convert produces the display form of m in target. It never fails: every
// unit it cannot scale comes back with the caller's unit string and a
// formatted amount.
func (c *Converter) Convert(m domain.Measurement, target domain.MeasurementSystem) Result {
	class := Classify(m.Unit)

	switch class {
	case domain.UnitCount:
		return Result{
			Measurement: domain.Measurement{Amount: math.Round(m.Amount), Unit: m.Unit},
			Class:       class,
			Outcome:     OutcomeCount,
		}
	case domain.UnitUnknown:
		return passThrough(m, class, OutcomeUnknown)
	}

	if sys, _ := class.System(); sys == target {
		return passThrough(m, class, OutcomeSameSystem)
	}

	entry, ok := c.Lookup(target, m.Unit)
	if !ok {
		return passThrough(m, class, OutcomeMissingEntry)
	}

	amount, unit := Rescale(m.Amount*entry.Factor, entry.To)
	return Result{
		Measurement: domain.Measurement{Amount: Format(amount, unit), Unit: unit},
		Class:       class,
		Outcome:     OutcomeConverted,
	}
}

// ConvertIngredient converts the ingredient's quantity into target. Every
// other field is copied through untouched.
func (c *Converter) ConvertIngredient(ing domain.Ingredient, target domain.MeasurementSystem) (domain.Ingredient, Outcome) {
	res := c.Convert(ing.Measurement(), target)
	return ing.WithMeasurement(res.Measurement), res.Outcome
}

func passThrough(m domain.Measurement, class domain.UnitClass, o Outcome) Result {
	return Result{
		Measurement: domain.Measurement{Amount: Format(m.Amount, m.Unit), Unit: m.Unit},
		Class:       class,
		Outcome:     o,
	}
}

// Convert converts m into target using the built-in tables.
func Convert(m domain.Measurement, target domain.MeasurementSystem) Result {
	return defaultConverter.Convert(m, target)
}

// ConvertIngredient converts ing into target using the built-in tables.
func ConvertIngredient(ing domain.Ingredient, target domain.MeasurementSystem) (domain.Ingredient, Outcome) {
	return defaultConverter.ConvertIngredient(ing, target)
}
