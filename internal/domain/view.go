package domain

import (
	"strings"
	"time"
)

// DisplayMode selects how a recipe's ingredients are shown to a viewer.
type DisplayMode int

const (
	// ModeOriginal shows the stored quantities untouched.
	ModeOriginal DisplayMode = iota
	// ModeMetric converts every convertible ingredient to metric.
	ModeMetric
	// ModeImperial converts every convertible ingredient to imperial.
	ModeImperial
)

// String returns the wire name of the mode.
func (m DisplayMode) String() string {
	switch m {
	case ModeOriginal:
		return "original"
	case ModeMetric:
		return "metric"
	case ModeImperial:
		return "imperial"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the three display modes.
func (m DisplayMode) Valid() bool {
	switch m {
	case ModeOriginal, ModeMetric, ModeImperial:
		return true
	default:
		return false
	}
}

// Target returns the system a converting mode targets. ok is false for
// ModeOriginal.
func (m DisplayMode) Target() (MeasurementSystem, bool) {
	switch m {
	case ModeMetric:
		return SystemMetric, true
	case ModeImperial:
		return SystemImperial, true
	default:
		return SystemImperial, false
	}
}

// ModeFor returns the converting mode for a system.
func ModeFor(s MeasurementSystem) DisplayMode {
	if s == SystemMetric {
		return ModeMetric
	}
	return ModeImperial
}

// ParseMode converts a wire name into a DisplayMode. An empty name means
// ModeOriginal.
func ParseMode(name string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "original":
		return ModeOriginal, nil
	case "metric":
		return ModeMetric, nil
	case "imperial":
		return ModeImperial, nil
	default:
		return ModeOriginal, ErrInvalidMode
	}
}

// ViewSession tracks one viewer looking at one recipe.
type ViewSession struct {
	ID         string
	RecipeID   string
	RecipeName string
	Mode       DisplayMode
	Detected   MeasurementSystem
	Closed     bool
	OpenedAt   time.Time
	UpdatedAt  time.Time
}

// RecipeView is a display-ready rendering of a recipe. It is built fresh
// for every request and never stored.
type RecipeView struct {
	Recipe      *Recipe
	Mode        DisplayMode
	Detected    MeasurementSystem
	Ingredients []Ingredient
	// Outcomes holds one conversion outcome label per displayed ingredient,
	// "original" when the ingredient was shown untouched.
	Outcomes []string
}
