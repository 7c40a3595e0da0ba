package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// AudioCache keeps synthesized audio in memory and, when a directory is
// set, on disk. Keys are sha256(voice + ":" + text), so switching voices
// misses instead of replaying the old voice. Ingredient lists repeat a lot
// between modes, so most reads after the first are hits.
type AudioCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	voice   string
	dir     string
	log     *logger.Logger
	hits    int64
	misses  int64
}

// NewAudioCache creates a cache. An empty dir keeps it in memory only.
func NewAudioCache(voice, dir string, log *logger.Logger) *AudioCache {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("audio cache: cannot create %s, using memory only: %v", dir, err)
			dir = ""
		}
	}
	return &AudioCache{
		entries: make(map[string][]byte),
		voice:   voice,
		dir:     dir,
		log:     log,
	}
}

// Get returns cached audio for text.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.entries[key]; ok {
		c.hits++
		return data, true
	}
	if c.dir != "" {
		if data, err := os.ReadFile(c.path(key)); err == nil {
			c.entries[key] = data
			c.hits++
			c.log.Debug("audio cache hit (disk): %s", key[:12])
			return data, true
		}
	}
	c.misses++
	return nil, false
}

// Put stores audio for text.
func (c *AudioCache) Put(text string, audio []byte) {
	key := c.key(text)

	c.mu.Lock()
	c.entries[key] = audio
	c.mu.Unlock()

	if c.dir != "" {
		if err := os.WriteFile(c.path(key), audio, 0o644); err != nil {
			c.log.Warn("audio cache: disk write failed: %v", err)
		}
	}
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AudioCache) key(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
