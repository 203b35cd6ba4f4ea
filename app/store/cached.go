package store

import (
	"fmt"

	"github.com/go-pkgz/lcw/v2"
)

// Cached wraps a store Interface with a loading cache and satisfies the
// Interface itself. The cache is populated on reads via loader function and
// invalidated on writes. Preference reads happen on every page render, so
// the hot path avoids the database entirely.
type Cached struct {
	store Interface
	cache lcw.LoadingCache[string]
}

// NewCached creates a new cached store wrapper.
// maxKeys sets the maximum number of entries in the cache.
func NewCached(store Interface, maxKeys int) (*Cached, error) {
	cache, err := lcw.NewLruCache(lcw.NewOpts[string]().MaxKeys(maxKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cached{store: store, cache: cache}, nil
}

// Get retrieves the theme for a profile, using cache with load-through.
func (c *Cached) Get(profile string) (string, error) {
	value, err := c.cache.Get(profile, func() (string, error) {
		v, loadErr := c.store.Get(profile)
		if loadErr != nil {
			return "", fmt.Errorf("load from store: %w", loadErr)
		}
		return v, nil
	})
	if err != nil {
		return "", fmt.Errorf("cache get: %w", err)
	}
	return value, nil
}

// Set stores a theme and invalidates the cache entry.
func (c *Cached) Set(profile, theme string) error {
	if err := c.store.Set(profile, theme); err != nil {
		// don't wrap - let caller check error type directly (ErrInvalidTheme)
		return err //nolint:wrapcheck // intentionally pass through for error type checks
	}
	c.cache.Invalidate(func(k string) bool { return k == profile })
	return nil
}

// Delete removes a preference and invalidates the cache entry.
func (c *Cached) Delete(profile string) error {
	// invalidate regardless of error - the profile might have been cached
	c.cache.Invalidate(func(k string) bool { return k == profile })
	if err := c.store.Delete(profile); err != nil {
		return fmt.Errorf("store delete: %w", err)
	}
	return nil
}

// List returns all preferences from the underlying store (not cached).
func (c *Cached) List() ([]PrefInfo, error) {
	prefs, err := c.store.List()
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}
	return prefs, nil
}

// Close closes the cache and underlying store.
func (c *Cached) Close() error {
	_ = c.cache.Close()
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("store close: %w", err)
	}
	return nil
}
