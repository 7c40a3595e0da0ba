package recipe

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

//go:embed schema.sql
var schema string

// Compile-time interface check.
var _ domain.RecipeSource = (*SQLiteSource)(nil)

// SQLiteSource stores recipes in a SQLite database. Amounts are kept as
// text, the way recipe forms submit them, and parsed on the way out.
type SQLiteSource struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	log.Debug("opened recipe database %s", path)
	return &SQLiteSource{db: db, log: log}, nil
}

// Close closes the database handle.
func (s *SQLiteSource) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns summaries of all stored recipes ordered by name.
func (s *SQLiteSource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	return s.querySummaries(ctx, `SELECT id, name, description, tags FROM recipes ORDER BY name`)
}

// Search matches the query against names, descriptions, tags and
// ingredient names.
func (s *SQLiteSource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	like := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return s.querySummaries(ctx,
		`SELECT id, name, description, tags FROM recipes r
		 WHERE lower(name) LIKE ?1 ESCAPE '\' OR lower(description) LIKE ?1 ESCAPE '\' OR lower(tags) LIKE ?1 ESCAPE '\'
		    OR EXISTS (SELECT 1 FROM recipe_ingredients i
		                WHERE i.recipe_id = r.id AND lower(i.name) LIKE ?1 ESCAPE '\')
		 ORDER BY name`, like)
}

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *SQLiteSource) querySummaries(ctx context.Context, q string, args ...any) ([]domain.RecipeSummary, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.RecipeSummary
	for rows.Next() {
		var sum domain.RecipeSummary
		var tags string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Description, &tags); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		sum.Tags = splitTags(tags)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get loads a recipe with its ingredients and steps.
func (s *SQLiteSource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	r := &domain.Recipe{}
	var tags string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, servings, tags, version FROM recipes WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Description, &r.Servings, &tags, &r.Version)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe %s: %w", id, err)
	}
	r.Tags = splitTags(tags)

	ings, err := s.db.QueryContext(ctx,
		`SELECT name, amount, unit, size, notes, optional FROM recipe_ingredients
		 WHERE recipe_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	defer ings.Close()
	for ings.Next() {
		var ing domain.Ingredient
		var amount string
		if err := ings.Scan(&ing.Name, &amount, &ing.Unit, &ing.SizeDescriptor, &ing.Notes, &ing.Optional); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		if ing.Quantity, err = ParseAmount(amount); err != nil {
			// A bad stored amount must not block showing the recipe.
			s.log.Warn("recipe %s: ingredient %q has unreadable amount %q", id, ing.Name, amount)
			ing.Quantity = 0
		}
		r.Ingredients = append(r.Ingredients, ing)
	}
	if err := ings.Err(); err != nil {
		return nil, err
	}

	steps, err := s.db.QueryContext(ctx,
		`SELECT instruction FROM recipe_steps WHERE recipe_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load steps: %w", err)
	}
	defer steps.Close()
	for steps.Next() {
		var step string
		if err := steps.Scan(&step); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		r.Steps = append(r.Steps, step)
	}
	return r, steps.Err()
}

// Import inserts a new recipe. An empty ID is filled with a fresh UUID.
func (s *SQLiteSource) Import(ctx context.Context, r *domain.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := validate(r); err != nil {
		return err
	}
	r.Version = 1

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT count(*) FROM recipes WHERE id = ?`, r.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check recipe: %w", err)
		}
		if exists > 0 {
			return domain.ErrAlreadyExists
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (id, name, description, servings, tags, version) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Description, r.Servings, strings.Join(r.Tags, ","), r.Version,
		); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		if err := writeChildren(ctx, tx, r); err != nil {
			return err
		}
		s.log.Info("recipe imported: %s (%s)", r.Name, r.ID)
		return nil
	})
}

// Update replaces a stored recipe and bumps its version.
func (s *SQLiteSource) Update(ctx context.Context, r *domain.Recipe) error {
	if err := validate(r); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE recipes SET name = ?, description = ?, servings = ?, tags = ?, version = version + 1 WHERE id = ?`,
			r.Name, r.Description, r.Servings, strings.Join(r.Tags, ","), r.ID)
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		for _, table := range []string{"recipe_ingredients", "recipe_steps"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE recipe_id = ?`, r.ID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := writeChildren(ctx, tx, r); err != nil {
			return err
		}
		r.Version++
		s.log.Info("recipe updated: %s (v%d)", r.Name, r.Version)
		return nil
	})
}

func writeChildren(ctx context.Context, tx *sql.Tx, r *domain.Recipe) error {
	for i, ing := range r.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, position, name, amount, unit, size, notes, optional)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, ing.Name, FormatAmount(ing.Quantity), ing.Unit, ing.SizeDescriptor, ing.Notes, ing.Optional,
		); err != nil {
			return fmt.Errorf("insert ingredient %d: %w", i+1, err)
		}
	}
	for i, step := range r.Steps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_steps (recipe_id, position, instruction) VALUES (?, ?, ?)`,
			r.ID, i, step,
		); err != nil {
			return fmt.Errorf("insert step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *SQLiteSource) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func validate(r *domain.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipe name is required")
	}
	for i, ing := range r.Ingredients {
		if err := CheckAmount(ing.Quantity); err != nil {
			return fmt.Errorf("ingredient %d (%s): %w", i+1, ing.Name, err)
		}
	}
	return nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
