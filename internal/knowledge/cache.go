package knowledge

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/watcher"
)

// CachedCorpus keeps the last loaded snapshot of a Loader's directory and drops it whenever the
// watcher reports a change, so callers see the same documents a fresh load would return.
// Without a running watcher (for example when the directory does not exist yet) every call
// loads from disk.
type CachedCorpus struct {
	loader  *Loader
	logger  *zap.Logger
	watcher *watcher.Watcher

	mu       sync.Mutex
	docs     []models.KnowledgeDocument
	valid    bool
	watching bool
	gen      uint64
}

// NewCachedCorpus wraps loader. Call Start to enable caching.
func NewCachedCorpus(loader *Loader, logger *zap.Logger) *CachedCorpus {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CachedCorpus{loader: loader, logger: logger}
	c.watcher = watcher.New(loader.Dir(), loader.Extensions(), c.onChange,
		watcher.WithLogger(logger),
		watcher.WithSettled(c.warm),
	)
	return c
}

// Start begins watching the loader's directory. A missing directory is not an error; the corpus
// then stays uncached.
func (c *CachedCorpus) Start(ctx context.Context) error {
	if err := c.watcher.Start(ctx); err != nil {
		if errors.Is(err, watcher.ErrNoDirectory) {
			c.logger.Info("knowledge directory missing, caching disabled", zap.String("dir", c.loader.Dir()))
			return nil
		}
		return err
	}
	c.mu.Lock()
	c.watching = true
	c.mu.Unlock()
	return nil
}

// Stop stops the watcher and disables caching.
func (c *CachedCorpus) Stop() {
	c.watcher.Stop()
	c.mu.Lock()
	c.watching = false
	c.valid = false
	c.docs = nil
	c.mu.Unlock()
}

// Documents implements Corpus.
func (c *CachedCorpus) Documents(ctx context.Context) ([]models.KnowledgeDocument, error) {
	c.mu.Lock()
	if !c.watching {
		c.mu.Unlock()
		return c.loader.Load(ctx)
	}
	if c.valid {
		docs := c.docs
		c.mu.Unlock()
		return docs, nil
	}
	gen := c.gen
	c.mu.Unlock()

	docs, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// A change that arrived during the load leaves the cache invalid.
	if c.watching && c.gen == gen {
		c.docs = docs
		c.valid = true
	}
	c.mu.Unlock()
	return docs, nil
}

func (c *CachedCorpus) onChange(path string) {
	c.mu.Lock()
	c.gen++
	c.valid = false
	c.docs = nil
	c.mu.Unlock()
	c.logger.Debug("knowledge cache invalidated", zap.String("file", path))
}

func (c *CachedCorpus) warm() {
	docs, err := c.Documents(context.Background())
	if err != nil {
		c.logger.Warn("knowledge reload failed", zap.Error(err))
		return
	}
	c.logger.Info("knowledge reloaded", zap.Int("documents", len(docs)))
}
