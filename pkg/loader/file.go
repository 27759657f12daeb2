// ABOUTME: Disk-backed Loader that decodes clips on background goroutines
// ABOUTME: Collapses duplicate requests with singleflight and caches results with go-cache
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/Resonate-Protocol/voicepool-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/voicepool-go/pkg/audio/resample"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a decoded clip stays cached after it was loaded
const DefaultCacheTTL = 10 * time.Minute

// FileLoader loads clips from files under a root directory
type FileLoader struct {
	root       string
	manifest   *Manifest
	sampleRate int
	ttl        time.Duration
	logger     *slog.Logger

	group singleflight.Group
	cache *cache.Cache
}

// FileOption configures a FileLoader
type FileOption func(*FileLoader)

// WithManifest lets requests name clips by manifest name as well as by path
func WithManifest(m *Manifest) FileOption {
	return func(l *FileLoader) { l.manifest = m }
}

// WithSampleRate resamples every loaded clip to rate
func WithSampleRate(rate int) FileOption {
	return func(l *FileLoader) { l.sampleRate = rate }
}

// WithCacheTTL sets how long decoded clips are kept
func WithCacheTTL(ttl time.Duration) FileOption {
	return func(l *FileLoader) { l.ttl = ttl }
}

// WithLoaderLogger sets the diagnostics logger
func WithLoaderLogger(logger *slog.Logger) FileOption {
	return func(l *FileLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewFileLoader creates a loader rooted at root
func NewFileLoader(root string, opts ...FileOption) *FileLoader {
	l := &FileLoader{
		root:   root,
		ttl:    DefaultCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "loader")
	l.cache = cache.New(l.ttl, 2*l.ttl)
	return l
}

// Request starts loading assetID, which is a manifest name or a path
// relative to the root. Cached clips complete immediately.
func (l *FileLoader) Request(assetID string) Operation {
	op := NewPending(assetID)
	key := l.key(assetID)

	if clip, ok := l.cached(key); ok {
		op.Complete(clip, nil)
		return op
	}

	go func() {
		op.Complete(l.load(key))
	}()
	return op
}

// Load requests assetID and waits for it
func (l *FileLoader) Load(ctx context.Context, assetID string) (*audio.Clip, error) {
	op := l.Request(assetID).(*Pending)
	select {
	case <-op.Wait():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := op.Err(); err != nil {
		return nil, &LoadError{AssetID: assetID, Err: err}
	}
	return op.Result(), nil
}

// Preload requests every asset and waits for all of them
func (l *FileLoader) Preload(ctx context.Context, assetIDs ...string) ([]*audio.Clip, error) {
	ops := make([]Operation, len(assetIDs))
	for i, id := range assetIDs {
		ops[i] = l.Request(id)
	}
	return AwaitAll(ctx, DefaultPollInterval, ops...)
}

// Cached returns the number of clips currently cached
func (l *FileLoader) Cached() int {
	return l.cache.ItemCount()
}

// Evict drops assetID from the cache
func (l *FileLoader) Evict(assetID string) {
	l.cache.Delete(l.key(assetID))
}

func (l *FileLoader) key(assetID string) string {
	if id, ok := l.manifest.Resolve(assetID); ok {
		return id
	}
	return filepath.ToSlash(assetID)
}

func (l *FileLoader) cached(key string) (*audio.Clip, bool) {
	v, ok := l.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*audio.Clip), true
}

func (l *FileLoader) load(key string) (*audio.Clip, error) {
	v, err, shared := l.group.Do(key, func() (any, error) {
		if clip, ok := l.cached(key); ok {
			return clip, nil
		}

		path, err := l.path(key)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		clip, err := decode.File(path)
		if err != nil {
			return nil, err
		}
		clip = resample.Clip(clip, l.sampleRate)

		l.cache.Set(key, clip, cache.DefaultExpiration)
		l.logger.Debug("clip loaded",
			"asset", key,
			"clip", clip.String(),
			"elapsed", time.Since(start))
		return clip, nil
	})
	if err != nil {
		l.logger.Error("clip load failed", "asset", key, "error", err)
		return nil, err
	}
	if shared {
		l.logger.Debug("clip load shared", "asset", key)
	}
	return v.(*audio.Clip), nil
}

func (l *FileLoader) path(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s escapes the asset root", ErrUnknownAsset, key)
	}
	path := filepath.Join(l.root, rel)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrUnknownAsset, key)
		}
		return "", err
	}
	return path, nil
}
