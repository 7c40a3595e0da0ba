package recipe

import (
	"errors"
	"strings"
	"testing"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

const pancakesYAML = `
name: Pancakes
description: Fluffy weekend pancakes.
servings: 4
tags: [breakfast, sweet]
ingredients:
  - name: flour
    amount: "1 1/2"
    unit: cups
  - name: milk
    amount: "1 1/4"
    unit: cup
  - name: egg
    amount: "1"
    unit: whole
  - name: salt
    size: pinch
steps:
  - Whisk the dry ingredients.
  - Add milk and egg, then cook on a hot griddle.
`

func TestDecodeYAML(t *testing.T) {
	r, err := DecodeYAML(strings.NewReader(pancakesYAML))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Name != "Pancakes" || r.Servings != 4 {
		t.Fatalf("unexpected header: %+v", r)
	}
	if len(r.Ingredients) != 4 {
		t.Fatalf("expected 4 ingredients, got %d", len(r.Ingredients))
	}
	if r.Ingredients[0].Quantity != 1.5 || r.Ingredients[0].Unit != "cups" {
		t.Errorf("flour = %+v", r.Ingredients[0])
	}
	if r.Ingredients[3].Quantity != 0 || r.Ingredients[3].Unit != "" {
		t.Errorf("salt should have no amount: %+v", r.Ingredients[3])
	}
	if len(r.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(r.Steps))
	}
}

func TestDecodeYAMLErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		amount bool
	}{
		{"missing name", "servings: 2\n", false},
		{"negative amount", "name: x\ningredients:\n  - name: a\n    amount: \"-2\"\n    unit: cup\n", true},
		{"garbage amount", "name: x\ningredients:\n  - name: a\n    amount: lots\n    unit: cup\n", true},
		{"bad yaml", "name: [unclosed\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeYAML(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.amount && !errors.Is(err, domain.ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount, got %v", err)
			}
		})
	}
}
