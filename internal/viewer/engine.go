// Package viewer implements recipe view sessions: which recipe a viewer has
// open, which display mode they picked, and the converted ingredient list
// they see.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/metrics"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

// Option configures the engine.
type Option func(*Engine)

// WithConverter replaces the default unit converter.
func WithConverter(c *units.Converter) Option {
	return func(e *Engine) {
		e.conv = c
	}
}

// WithClock overrides time.Now for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine manages view sessions. It depends only on interfaces and is
// fully testable with in-memory implementations.
type Engine struct {
	recipes domain.RecipeSource
	store   domain.ViewStore
	log     *logger.Logger
	conv    *units.Converter
	now     func() time.Time
}

// RecipeUpdater is an optional interface that RecipeSource implementations
// can satisfy to support in-place recipe mutations.
type RecipeUpdater interface {
	Update(ctx context.Context, recipe *domain.Recipe) error
}

// New creates a view engine with the given dependencies and options.
func New(recipes domain.RecipeSource, store domain.ViewStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		recipes: recipes,
		store:   store,
		log:     log,
		conv:    units.NewConverter(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListRecipes returns all available recipes.
func (e *Engine) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// SearchRecipes returns recipes matching query.
func (e *Engine) SearchRecipes(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	return e.recipes.Search(ctx, query)
}

// UpdateRecipe persists a mutated recipe. Returns ErrNotImplemented if the
// underlying RecipeSource does not support updates.
func (e *Engine) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	updater, ok := e.recipes.(RecipeUpdater)
	if !ok {
		return fmt.Errorf("recipe source does not support updates: %w", domain.ErrNotImplemented)
	}
	return updater.Update(ctx, recipe)
}

// Detect returns the dominant measurement system of a stored recipe.
func (e *Engine) Detect(ctx context.Context, recipeID string) (domain.MeasurementSystem, error) {
	recipe, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return domain.SystemImperial, fmt.Errorf("getting recipe: %w", err)
	}
	sys := units.DetectIngredients(recipe.Ingredients)
	metrics.RecordDetection(sys.String())
	return sys, nil
}

// Open starts a view session on a recipe in original mode.
func (e *Engine) Open(ctx context.Context, recipeID string) (*domain.ViewSession, error) {
	recipe, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	detected := units.DetectIngredients(recipe.Ingredients)
	metrics.RecordDetection(detected.String())

	now := e.now()
	session := &domain.ViewSession{
		ID:         uuid.NewString(),
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		Mode:       domain.ModeOriginal,
		Detected:   detected,
		OpenedAt:   now,
		UpdatedAt:  now,
	}
	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	metrics.OpenViews.Inc()

	e.log.Info("opened view %s for recipe %q (detected %s)", session.ID, recipe.Name, detected)
	return session, nil
}

// Session returns a view session by ID.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.ViewSession, error) {
	return e.store.Load(ctx, sessionID)
}

// SetMode switches the session's display mode.
func (e *Engine) SetMode(ctx context.Context, sessionID string, mode domain.DisplayMode) (*domain.ViewSession, error) {
	if !mode.Valid() {
		return nil, domain.ErrInvalidMode
	}
	session, err := e.openSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return e.applyMode(ctx, session, mode)
}

// Toggle flips the session between original and converted display.
func (e *Engine) Toggle(ctx context.Context, sessionID string) (*domain.ViewSession, error) {
	session, err := e.openSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return e.applyMode(ctx, session, Toggle(session.Mode, session.Detected))
}

func (e *Engine) applyMode(ctx context.Context, session *domain.ViewSession, mode domain.DisplayMode) (*domain.ViewSession, error) {
	prev := session.Mode
	session.Mode = mode
	session.UpdatedAt = e.now()
	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	if prev != mode {
		metrics.RecordModeChange(mode.String())
	}
	e.log.Debug("view %s: mode %s -> %s", session.ID, prev, mode)
	return session, nil
}

// Render builds the ingredient list for the session's current mode. The
// recipe is re-read on every call so conversions always start from the
// stored quantities.
func (e *Engine) Render(ctx context.Context, sessionID string) (*domain.RecipeView, error) {
	session, err := e.openSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	recipe, err := e.recipes.Get(ctx, session.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	return e.RenderRecipe(recipe, session.Mode), nil
}

// RenderRecipe converts a recipe for mode without a session. Ingredients
// with no amount or no unit are shown as stored in every mode.
func (e *Engine) RenderRecipe(recipe *domain.Recipe, mode domain.DisplayMode) *domain.RecipeView {
	view := &domain.RecipeView{
		Recipe:      recipe,
		Mode:        mode,
		Detected:    units.DetectIngredients(recipe.Ingredients),
		Ingredients: make([]domain.Ingredient, len(recipe.Ingredients)),
		Outcomes:    make([]string, len(recipe.Ingredients)),
	}

	target, converting := mode.Target()
	for i, ing := range recipe.Ingredients {
		if !converting || ing.Quantity == 0 || ing.Unit == "" {
			view.Ingredients[i] = ing
			view.Outcomes[i] = domain.ModeOriginal.String()
			continue
		}

		out, outcome := e.conv.ConvertIngredient(ing, target)
		view.Ingredients[i] = out
		view.Outcomes[i] = outcome.String()
		metrics.RecordConversion(outcome.String(), target.String())

		switch outcome {
		case units.OutcomeMissingEntry:
			e.log.Warn("no %s conversion for unit %q (ingredient %q)", target, ing.Unit, ing.Name)
		case units.OutcomeConverted:
		default:
			e.log.Debug("ingredient %q kept unit %q (%s)", ing.Name, ing.Unit, outcome)
		}
	}
	return view
}

// Close ends a view session.
func (e *Engine) Close(ctx context.Context, sessionID string) error {
	session, err := e.openSession(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Closed = true
	session.UpdatedAt = e.now()
	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	metrics.OpenViews.Dec()
	e.log.Info("closed view %s", session.ID)
	return nil
}

// PurgeClosed forgets views closed more than retention ago. Until then a
// closed view answers ErrSessionClosed, afterwards ErrNotFound.
func (e *Engine) PurgeClosed(ctx context.Context, retention time.Duration) (int, error) {
	return e.store.PurgeClosed(ctx, e.now().Add(-retention))
}

// OpenViews returns every session that has not been closed.
func (e *Engine) OpenViews(ctx context.Context) ([]*domain.ViewSession, error) {
	return e.store.ListOpen(ctx)
}

func (e *Engine) openSession(ctx context.Context, sessionID string) (*domain.ViewSession, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Closed {
		return nil, domain.ErrSessionClosed
	}
	return session, nil
}
