package domain

import "strings"

// MeasurementSystem is the recipe-level unit system. It is derived from the
// ingredient list on demand and never persisted.
type MeasurementSystem int

const (
	SystemImperial MeasurementSystem = iota
	SystemMetric
)

// String returns the wire name of the system.
func (s MeasurementSystem) String() string {
	switch s {
	case SystemImperial:
		return "imperial"
	case SystemMetric:
		return "metric"
	default:
		return "unknown"
	}
}

// Opposite returns the other system.
func (s MeasurementSystem) Opposite() MeasurementSystem {
	if s == SystemMetric {
		return SystemImperial
	}
	return SystemMetric
}

// ParseSystem converts "imperial" or "metric" into a MeasurementSystem.
func ParseSystem(name string) (MeasurementSystem, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "imperial":
		return SystemImperial, nil
	case "metric":
		return SystemMetric, nil
	default:
		return SystemImperial, ErrInvalidSystem
	}
}

// UnitClass is the classification of a normalised unit token.
type UnitClass int

const (
	UnitUnknown UnitClass = iota
	UnitImperial
	UnitMetric
	UnitCount
)

// String returns a human-readable class name.
func (c UnitClass) String() string {
	switch c {
	case UnitImperial:
		return "imperial"
	case UnitMetric:
		return "metric"
	case UnitCount:
		return "count"
	default:
		return "unknown"
	}
}

// System returns the measurement system of an imperial or metric class.
// ok is false for count and unknown units.
func (c UnitClass) System() (MeasurementSystem, bool) {
	switch c {
	case UnitImperial:
		return SystemImperial, true
	case UnitMetric:
		return SystemMetric, true
	default:
		return SystemImperial, false
	}
}

// Measurement is an amount paired with the unit it is expressed in.
type Measurement struct {
	Amount float64
	Unit   string
}
