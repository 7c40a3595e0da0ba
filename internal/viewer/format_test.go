package viewer

import (
	"testing"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		ing  domain.Ingredient
		want string
	}{
		{"plain", domain.Ingredient{Name: "creme fraiche", Quantity: 237, Unit: "ml"}, "237 ml creme fraiche"},
		{"decimal", domain.Ingredient{Name: "bread flour", Quantity: 1.1, Unit: "lb"}, "1.1 lb bread flour"},
		{"size", domain.Ingredient{Name: "garlic", Quantity: 4, Unit: "cloves", SizeDescriptor: "medium"}, "4 cloves garlic, medium"},
		{"no amount", domain.Ingredient{Name: "salt", SizeDescriptor: "to taste"}, "salt, to taste"},
		{"notes and optional", domain.Ingredient{Name: "olive oil", Quantity: 15, Unit: "ml", Notes: "for the tin", Optional: true}, "15 ml olive oil (for the tin) [optional]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line(tt.ing); got != tt.want {
				t.Fatalf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}
