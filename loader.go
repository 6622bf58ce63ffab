// FILE: lixenwraith/layercfg/loader.go
package config

import (
	"fmt"
	"time"
)

// load calls Load on every source in registration order and publishes the
// merged view. The first failure aborts; the previous view stays in place.
// The caller holds the write lock or owns c exclusively.
func (c *Config) load() error {
	for i, src := range c.sources {
		start := time.Now()
		if err := src.Load(); err != nil {
			c.logger.Error().
				Err(err).
				Int("index", i).
				Str("source", src.Name()).
				Msg("configuration source failed to load")
			return fmt.Errorf("failed to load source %d (%s): %w", i, src.Name(), err)
		}
		c.logger.Debug().
			Int("index", i).
			Str("source", src.Name()).
			Int("keys", len(src.Keys())).
			Dur("took", time.Since(start)).
			Msg("configuration source loaded")
	}

	c.merged = merge(c.sources)
	c.logger.Debug().
		Int("sources", len(c.sources)).
		Int("keys", len(c.merged)).
		Msg("configuration merged")
	return nil
}

// Reload loads every source again, in order, and rebuilds the merged view.
// On failure the error is returned and readers keep seeing the previous view,
// although sources before the failing one hold their new data.
func (c *Config) Reload() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.load()
}
