// Package speech reads ingredient lists aloud with Azure text-to-speech
// and local audio playback.
package speech

import (
	"context"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Compile-time interface check.
var _ domain.IngredientReader = (*NoOp)(nil)

// NoOp is a reader that does nothing. Used when speech is disabled.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op reader.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Read logs the lines instead of speaking them and reports that speech is
// not available.
func (n *NoOp) Read(ctx context.Context, lines []string) error {
	n.log.Debug("speech disabled: would read %d lines", len(lines))
	return domain.ErrNotImplemented
}
