// Package domain defines the core types and interfaces for the recipe viewer.
// All other packages depend on domain; domain depends on nothing.
package domain

// Recipe represents a complete recipe as stored.
type Recipe struct {
	ID          string
	Name        string
	Description string
	Servings    int
	Ingredients []Ingredient
	Steps       []string
	Tags        []string
	Version     int
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Tags        []string
}

// Ingredient represents a single ingredient line with its stored quantity.
// Quantity and Unit are the only fields unit conversion ever replaces.
type Ingredient struct {
	Name           string
	Quantity       float64
	Unit           string // "cup", "tbsp", "g", "piece", "", ...
	SizeDescriptor string // "small", "grated", "to taste", ""
	Notes          string
	Optional       bool
}

// Measurement returns the amount/unit pair of the ingredient.
func (i Ingredient) Measurement() Measurement {
	return Measurement{Amount: i.Quantity, Unit: i.Unit}
}

// WithMeasurement returns a copy of the ingredient carrying m.
func (i Ingredient) WithMeasurement(m Measurement) Ingredient {
	i.Quantity = m.Amount
	i.Unit = m.Unit
	return i
}
