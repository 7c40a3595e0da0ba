package domain

import (
	"errors"
	"testing"
)

func TestParseSystem(t *testing.T) {
	tests := []struct {
		in      string
		want    MeasurementSystem
		wantErr error
	}{
		{"imperial", SystemImperial, nil},
		{" Metric ", SystemMetric, nil},
		{"METRIC", SystemMetric, nil},
		{"cubits", SystemImperial, ErrInvalidSystem},
		{"", SystemImperial, ErrInvalidSystem},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSystem(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DisplayMode
		wantErr bool
	}{
		{"", ModeOriginal, false},
		{"original", ModeOriginal, false},
		{"metric", ModeMetric, false},
		{"Imperial", ModeImperial, false},
		{"both", ModeOriginal, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Fatalf("expected ErrInvalidMode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestModeValid(t *testing.T) {
	for _, m := range []DisplayMode{ModeOriginal, ModeMetric, ModeImperial} {
		if !m.Valid() {
			t.Errorf("%s should be valid", m)
		}
	}
	for _, m := range []DisplayMode{-1, 3, 42} {
		if m.Valid() {
			t.Errorf("DisplayMode(%d) should be invalid", int(m))
		}
	}
}

func TestModeTarget(t *testing.T) {
	if _, ok := ModeOriginal.Target(); ok {
		t.Fatal("original mode should not have a target system")
	}
	if s, ok := ModeMetric.Target(); !ok || s != SystemMetric {
		t.Fatalf("metric mode target = %s, %v", s, ok)
	}
	if ModeFor(SystemImperial) != ModeImperial {
		t.Fatal("ModeFor(imperial) should be ModeImperial")
	}
	if SystemImperial.Opposite() != SystemMetric || SystemMetric.Opposite() != SystemImperial {
		t.Fatal("Opposite is not symmetric")
	}
}

func TestIngredientWithMeasurementKeepsOtherFields(t *testing.T) {
	ing := Ingredient{Name: "flour", Quantity: 2, Unit: "cup", Notes: "sifted", Optional: true}
	out := ing.WithMeasurement(Measurement{Amount: 473, Unit: "ml"})
	if out.Name != "flour" || out.Notes != "sifted" || !out.Optional {
		t.Fatalf("non-measurement fields changed: %+v", out)
	}
	if out.Quantity != 473 || out.Unit != "ml" {
		t.Fatalf("measurement not applied: %+v", out)
	}
	if ing.Quantity != 2 || ing.Unit != "cup" {
		t.Fatal("original ingredient was mutated")
	}
}
