package recipe

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// recipeFile is the on-disk YAML shape accepted by the import command.
//
//	name: Pancakes
//	servings: 4
//	ingredients:
//	  - name: flour
//	    amount: "1 1/2"
//	    unit: cup
type recipeFile struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Servings    int              `yaml:"servings"`
	Tags        []string         `yaml:"tags"`
	Steps       []string         `yaml:"steps"`
	Ingredients []ingredientFile `yaml:"ingredients"`
}

type ingredientFile struct {
	Name     string `yaml:"name"`
	Amount   string `yaml:"amount"`
	Unit     string `yaml:"unit"`
	Size     string `yaml:"size"`
	Notes    string `yaml:"notes"`
	Optional bool   `yaml:"optional"`
}

// DecodeYAML reads one recipe from r. Amounts go through ParseAmount, so
// bad numbers are rejected here rather than reaching conversion.
func DecodeYAML(r io.Reader) (*domain.Recipe, error) {
	var f recipeFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding recipe yaml: %w", err)
	}
	if strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("recipe name is required")
	}

	rec := &domain.Recipe{
		ID:          strings.TrimSpace(f.ID),
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Servings:    f.Servings,
		Tags:        f.Tags,
		Steps:       f.Steps,
	}
	for i, ing := range f.Ingredients {
		amount, err := ParseAmount(ing.Amount)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d (%s): %w", i+1, ing.Name, err)
		}
		rec.Ingredients = append(rec.Ingredients, domain.Ingredient{
			Name:           ing.Name,
			Quantity:       amount,
			Unit:           ing.Unit,
			SizeDescriptor: ing.Size,
			Notes:          ing.Notes,
			Optional:       ing.Optional,
		})
	}
	return rec, nil
}
