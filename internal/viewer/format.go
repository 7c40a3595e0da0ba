package viewer

import (
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// Line renders one ingredient for display, e.g. "237 ml creme fraiche".
// An ingredient with no amount drops the number: "salt, to taste".
func Line(ing domain.Ingredient) string {
	var b strings.Builder
	if ing.Quantity != 0 {
		b.WriteString(strconv.FormatFloat(ing.Quantity, 'f', -1, 64))
		b.WriteByte(' ')
	}
	if ing.Unit != "" {
		b.WriteString(ing.Unit)
		b.WriteByte(' ')
	}
	b.WriteString(ing.Name)
	if ing.SizeDescriptor != "" {
		b.WriteString(", ")
		b.WriteString(ing.SizeDescriptor)
	}
	if ing.Notes != "" {
		b.WriteString(" (")
		b.WriteString(ing.Notes)
		b.WriteByte(')')
	}
	if ing.Optional {
		b.WriteString(" [optional]")
	}
	return b.String()
}

// Lines renders every ingredient of a view.
func Lines(v *domain.RecipeView) []string {
	out := make([]string, len(v.Ingredients))
	for i, ing := range v.Ingredients {
		out[i] = Line(ing)
	}
	return out
}
