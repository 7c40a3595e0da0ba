package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

func TestMemorySourceList(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	recipes, err := src.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}
	for i := 1; i < len(recipes); i++ {
		if recipes[i-1].Name > recipes[i].Name {
			t.Fatalf("list not sorted by name: %q before %q", recipes[i-1].Name, recipes[i].Name)
		}
	}
}

func TestMemorySourceGet(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	tests := []struct {
		id      string
		wantErr error
	}{
		{"chicken-alfredo", nil},
		{"country-loaf", nil},
		{"miso-soup", nil},
		{"nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r, err := src.Get(ctx, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.ID != tt.id {
				t.Fatalf("expected ID %s, got %s", tt.id, r.ID)
			}
			if len(r.Steps) == 0 {
				t.Fatal("recipe has no steps")
			}
			if len(r.Ingredients) == 0 {
				t.Fatal("recipe has no ingredients")
			}
		})
	}
}

func TestMemorySourceGetReturnsCopy(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	r, err := src.Get(ctx, "country-loaf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	r.Ingredients[0].Quantity = 9999
	r.Ingredients[0].Unit = "cup"

	again, _ := src.Get(ctx, "country-loaf")
	if again.Ingredients[0].Quantity != 500 || again.Ingredients[0].Unit != "g" {
		t.Fatalf("stored recipe mutated through returned copy: %+v", again.Ingredients[0])
	}
}

func TestMemorySourceSearch(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	tests := []struct {
		query string
		want  int
	}{
		{"chicken", 1},
		{"pasta", 1},
		{"vegan", 1},
		{"olive oil", 2},
		{"nonexistent-query-xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := src.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(results) != tt.want {
				t.Fatalf("query=%q: expected %d results, got %d", tt.query, tt.want, len(results))
			}
		})
	}
}

func TestMemorySourceAddAndUpdate(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	r := &domain.Recipe{ID: "pancakes", Name: "Pancakes", Ingredients: []domain.Ingredient{
		{Name: "flour", Quantity: 1.5, Unit: "cups"},
	}}
	if err := src.Add(ctx, r); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := src.Add(ctx, r); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, _ := src.Get(ctx, "pancakes")
	before := got.Version
	got.Ingredients[0].Quantity = 2
	if err := src.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := src.Get(ctx, "pancakes")
	if after.Version != before+1 {
		t.Errorf("version = %d, want %d", after.Version, before+1)
	}
	if after.Ingredients[0].Quantity != 2 {
		t.Errorf("quantity = %v, want 2", after.Ingredients[0].Quantity)
	}

	if err := src.Update(ctx, &domain.Recipe{ID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
