package domain

import (
	"context"
	"time"
)

// RecipeSource provides recipes. Implementations can be in-memory (built-in),
// SQLite-backed, or API-backed.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// ViewStore persists view sessions.
type ViewStore interface {
	Save(ctx context.Context, session *ViewSession) error
	Load(ctx context.Context, id string) (*ViewSession, error)
	Delete(ctx context.Context, id string) error
	ListOpen(ctx context.Context) ([]*ViewSession, error)
	// PurgeClosed deletes closed sessions last updated before cutoff and
	// reports how many it removed.
	PurgeClosed(ctx context.Context, cutoff time.Time) (int, error)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// IngredientReader reads a list of display lines aloud. The no-op
// implementation is used when speech is disabled.
type IngredientReader interface {
	Read(ctx context.Context, lines []string) error
}
