// Package offline keeps the presentation layer's static assets available
// without network access. The cache is keyed by the manifest version; a
// version change invalidates the whole cache and refetches every asset, never
// updating it piecemeal.
package offline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Manifest lists the assets one presentation build needs offline.
type Manifest struct {
	Version string
	Assets  []string
}

// Fetcher retrieves an asset's content by name while the network is available.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, name string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// ErrNotCached is returned when an asset is absent from the current cache.
var ErrNotCached = errors.New("offline: asset not cached")

// Cache stores asset copies under a root directory, one subdirectory per
// manifest version.
type Cache struct {
	root string
}

// NewCache returns a cache rooted at dir, creating it when absent.
func NewCache(dir string) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("offline: empty cache directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("offline: create cache root: %w", err)
	}
	return &Cache{root: dir}, nil
}

// Version reports the manifest version currently cached, empty when none.
func (c *Cache) Version() string {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			return entry.Name()
		}
	}
	return ""
}

// Sync brings the cache in line with the manifest. When the cached version
// already matches, nothing is fetched. Otherwise every older version is
// removed wholesale and all assets of the new manifest are fetched; a fetch
// failure leaves the old cache in place so stale assets beat no assets.
func (c *Cache) Sync(ctx context.Context, manifest Manifest, fetcher Fetcher) error {
	if manifest.Version == "" {
		return fmt.Errorf("offline: manifest has no version")
	}
	if c.Version() == manifest.Version {
		return nil
	}
	if fetcher == nil {
		return fmt.Errorf("offline: no fetcher configured")
	}

	staging := filepath.Join(c.root, "."+manifest.Version+".staging")
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("offline: clear staging: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("offline: create staging: %w", err)
	}

	for _, name := range manifest.Assets {
		data, err := fetcher.Fetch(ctx, name)
		if err != nil {
			_ = os.RemoveAll(staging)
			return fmt.Errorf("offline: fetch %s: %w", name, err)
		}
		target := filepath.Join(staging, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			_ = os.RemoveAll(staging)
			return fmt.Errorf("offline: prepare %s: %w", name, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			_ = os.RemoveAll(staging)
			return fmt.Errorf("offline: write %s: %w", name, err)
		}
	}

	// All assets landed; retire every previous version before activating.
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return fmt.Errorf("offline: list cache root: %w", err)
	}
	for _, entry := range entries {
		if entry.Name() == filepath.Base(staging) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.root, entry.Name())); err != nil {
			return fmt.Errorf("offline: remove old cache %s: %w", entry.Name(), err)
		}
	}
	if err := os.Rename(staging, filepath.Join(c.root, manifest.Version)); err != nil {
		return fmt.Errorf("offline: activate cache %s: %w", manifest.Version, err)
	}
	return nil
}

// Open returns the cached content of an asset from the current version.
func (c *Cache) Open(name string) ([]byte, error) {
	version := c.Version()
	if version == "" {
		return nil, ErrNotCached
	}
	data, err := os.ReadFile(filepath.Join(c.root, version, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("offline: read %s: %w", name, err)
	}
	return data, nil
}
