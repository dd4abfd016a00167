// Package assets maps logical asset names to the content-hashed files listed in the
// build manifest (manifest.json: {"js/app.js": "js/app.3f9a1c2e.js"}).
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// StaticPrefix is the URL prefix static assets are served under.
const StaticPrefix = "/static/"

// AssetResolver resolves logical asset names. A nil resolver resolves every name to itself.
type AssetResolver struct {
	mu       sync.RWMutex
	manifest map[string]string
	fsys     fs.FS
	path     string
	live     bool
	logger   *slog.Logger
}

// ResolverOptions configures NewAssetResolver.
type ResolverOptions struct {
	FS           fs.FS  // Filesystem holding the manifest (required)
	ManifestPath string // Path of the manifest inside FS; defaults to manifest.json
	// Live re-reads the manifest on every lookup so rebuilt assets show up without a restart.
	Live   bool
	Logger *slog.Logger
}

// NewAssetResolver loads the manifest. A missing manifest is not an error: names then resolve
// to themselves.
func NewAssetResolver(opts ResolverOptions) (*AssetResolver, error) {
	if opts.FS == nil {
		return nil, errors.New("assets: FS is required")
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = "manifest.json"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := &AssetResolver{
		manifest: map[string]string{},
		fsys:     opts.FS,
		path:     opts.ManifestPath,
		live:     opts.Live,
		logger:   opts.Logger,
	}
	return r, r.Reload()
}

// Reload re-reads the manifest.
func (r *AssetResolver) Reload() error {
	data, err := fs.ReadFile(r.fsys, r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.swap(map[string]string{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("read asset manifest %s: %w", r.path, err)
	}

	manifest := map[string]string{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("parse asset manifest %s: %w", r.path, err)
		}
	}
	r.swap(manifest)
	return nil
}

func (r *AssetResolver) swap(m map[string]string) {
	r.mu.Lock()
	r.manifest = m
	r.mu.Unlock()
}

// Resolve returns the URL for a logical asset name.
func (r *AssetResolver) Resolve(logicalName string) string {
	name := strings.TrimPrefix(path.Clean("/"+logicalName), "/")
	if r == nil {
		return StaticPrefix + name
	}
	if r.live {
		if err := r.Reload(); err != nil {
			r.logger.Error("failed to reload asset manifest",
				slog.String("manifest", r.path),
				slog.Any("error", err),
			)
		}
	}

	r.mu.RLock()
	hashed, ok := r.manifest[name]
	r.mu.RUnlock()
	if ok && hashed != "" {
		return StaticPrefix + hashed
	}
	return StaticPrefix + name
}

// Len reports the number of manifest entries.
func (r *AssetResolver) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.manifest)
}
