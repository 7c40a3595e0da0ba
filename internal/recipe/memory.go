// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent reads.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	src.seed()
	return src
}

// List returns summaries of all available recipes.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, summarize(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns a copy of a recipe by ID. Callers may modify the copy freely.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return clone(r), nil
}

// Add stores a new recipe. The ID must not be taken.
func (s *MemorySource) Add(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; ok {
		return domain.ErrAlreadyExists
	}
	if recipe.Version == 0 {
		recipe.Version = 1
	}
	s.recipes[recipe.ID] = clone(recipe)
	s.log.Info("recipe added: %s", recipe.Name)
	return nil
}

// Update replaces a recipe in the source. The recipe ID must already exist.
func (s *MemorySource) Update(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; !ok {
		return domain.ErrNotFound
	}
	recipe.Version++
	s.recipes[recipe.ID] = clone(recipe)
	s.log.Info("recipe updated: %s (v%d)", recipe.Name, recipe.Version)
	return nil
}

// Search returns recipes whose name, description, tags or ingredient names
// contain the query string.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if matches(r, q) {
			out = append(out, summarize(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), query) {
			return true
		}
	}
	return false
}

func summarize(r *domain.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Tags:        r.Tags,
	}
}

// clone deep-copies the slices so stored recipes never alias caller memory.
func clone(r *domain.Recipe) *domain.Recipe {
	c := *r
	c.Ingredients = append([]domain.Ingredient(nil), r.Ingredients...)
	c.Steps = append([]string(nil), r.Steps...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	recipes := []*domain.Recipe{
		chickenAlfredo(),
		countryLoaf(),
		misoSoup(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d recipes", len(recipes))
}

// chickenAlfredo is written mostly in cups and spoons.
func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-alfredo",
		Name:        "Chicken Alfredo",
		Description: "Creamy spaghetti alfredo with pan-seared chicken. Rich, indulgent, and not from a jar.",
		Servings:    2,
		Tags:        []string{"italian", "pasta", "chicken", "comfort"},
		Ingredients: []domain.Ingredient{
			{Name: "spaghetti", Quantity: 250, Unit: "grams"},
			{Name: "chicken breast", Quantity: 2, Unit: "pieces", SizeDescriptor: "medium"},
			{Name: "creme fraiche", Quantity: 1, Unit: "cup"},
			{Name: "gruyere cheese", Quantity: 1, Unit: "cup", SizeDescriptor: "grated"},
			{Name: "butter", Quantity: 3, Unit: "tablespoons"},
			{Name: "garlic", Quantity: 4, Unit: "cloves", SizeDescriptor: "medium"},
			{Name: "olive oil", Quantity: 1, Unit: "tablespoon"},
			{Name: "salt", Quantity: 0, Unit: "", SizeDescriptor: "to taste"},
			{Name: "black pepper", Quantity: 0, Unit: "", SizeDescriptor: "to taste"},
		},
		Steps: []string{
			"Bring a large pot of salted water to a boil for the pasta.",
			"Season the chicken breasts with salt and pepper and sear in olive oil, about 6 minutes per side. Rest, then slice.",
			"Cook the spaghetti until al dente. Reserve a cup of pasta water before draining.",
			"Melt the butter, cook the garlic for a minute, stir in the creme fraiche and reduce for 3 minutes.",
			"Off the heat, stir in the gruyere. Loosen with pasta water, toss with the pasta and top with chicken.",
		},
		Version: 1,
	}
}

// countryLoaf is a metric bakery recipe.
func countryLoaf() *domain.Recipe {
	return &domain.Recipe{
		ID:          "country-loaf",
		Name:        "Country Loaf",
		Description: "A same-day yeasted loaf with a crackly crust. Weigh everything.",
		Servings:    8,
		Tags:        []string{"bread", "baking", "vegan"},
		Ingredients: []domain.Ingredient{
			{Name: "bread flour", Quantity: 500, Unit: "g"},
			{Name: "water", Quantity: 350, Unit: "ml", SizeDescriptor: "lukewarm"},
			{Name: "salt", Quantity: 10, Unit: "g"},
			{Name: "instant yeast", Quantity: 7, Unit: "g"},
			{Name: "olive oil", Quantity: 15, Unit: "ml", Optional: true},
		},
		Steps: []string{
			"Mix flour, water and yeast until no dry flour remains. Rest 20 minutes.",
			"Add the salt and knead until smooth and elastic.",
			"Let rise until doubled, about 90 minutes. Shape into a round.",
			"Proof 45 minutes, then bake at 230 C for 35 minutes.",
		},
		Version: 1,
	}
}

// misoSoup has as many imperial units as metric ones.
func misoSoup() *domain.Recipe {
	return &domain.Recipe{
		ID:          "miso-soup",
		Name:        "Miso Soup",
		Description: "Weeknight miso soup with tofu and wakame.",
		Servings:    4,
		Tags:        []string{"japanese", "soup", "quick"},
		Ingredients: []domain.Ingredient{
			{Name: "dashi", Quantity: 1, Unit: "l"},
			{Name: "white miso", Quantity: 3, Unit: "tbsp"},
			{Name: "silken tofu", Quantity: 200, Unit: "g", SizeDescriptor: "cubed"},
			{Name: "dried wakame", Quantity: 2, Unit: "tbsp"},
			{Name: "scallions", Quantity: 2, Unit: "piece", SizeDescriptor: "sliced"},
			{Name: "soy sauce", Quantity: 1, Unit: "tsp"},
			{Name: "mirin", Quantity: 15, Unit: "ml"},
		},
		Steps: []string{
			"Warm the dashi until steaming. Do not boil.",
			"Soak the wakame for 5 minutes and drain.",
			"Whisk the miso with a ladle of dashi, then stir it back into the pot.",
			"Add tofu, wakame, soy sauce and mirin. Heat through and top with scallions.",
		},
		Version: 1,
	}
}
