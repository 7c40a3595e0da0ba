package speech

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Compile-time interface check.
var _ domain.IngredientReader = (*Reader)(nil)

// Reader speaks ingredient lines one after another. Only one list is read
// at a time; a second Read waits for the first.
type Reader struct {
	synth  Synthesizer
	player AudioPlayer
	cache  *AudioCache
	log    *logger.Logger
	mu     sync.Mutex
}

// NewReader creates a reader. cache may be nil.
func NewReader(synth Synthesizer, player AudioPlayer, cache *AudioCache, log *logger.Logger) *Reader {
	return &Reader{synth: synth, player: player, cache: cache, log: log}
}

// Read synthesizes and plays each line in order. Cancelling ctx silences
// the line being played and returns ctx.Err().
func (r *Reader) Read(ctx context.Context, lines []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := Spoken(line)

		audio, err := r.audioFor(ctx, text)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := r.player.Play(ctx, audio); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("playing line %d: %w", i+1, err)
		}
	}
	r.log.Debug("read %d lines aloud", len(lines))
	return nil
}

// Stop interrupts the line currently playing.
func (r *Reader) Stop() {
	r.player.Stop()
}

func (r *Reader) audioFor(ctx context.Context, text string) ([]byte, error) {
	if r.cache != nil {
		if audio, ok := r.cache.Get(text); ok {
			return audio, nil
		}
	}
	audio, err := r.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Put(text, audio)
	}
	return audio, nil
}
