package worker

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/osse101/brandish-progression/internal/catalog"
	"github.com/osse101/brandish-progression/internal/logger"
)

// Invalidator drops cached catalog entries
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// CatalogReloadJob re-reads the catalog at path and, when its content has
// changed since the last run, syncs it into the store and invalidates the
// cache so running engines see the new definitions.
type CatalogReloadJob struct {
	path   string
	loader catalog.Loader
	repo   catalog.Repository
	cache  Invalidator

	mu   sync.Mutex
	last []byte
}

func NewCatalogReloadJob(path string, repo catalog.Repository, cache Invalidator) *CatalogReloadJob {
	return &CatalogReloadJob{
		path:   path,
		loader: catalog.NewLoader(),
		repo:   repo,
		cache:  cache,
	}
}

func (j *CatalogReloadJob) Process(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	cfg, err := j.loader.Load(j.path)
	if err != nil {
		return fmt.Errorf(ErrMsgReloadLoad, j.path, err)
	}
	sum, err := fingerprint(cfg)
	if err != nil {
		return fmt.Errorf(ErrMsgReloadHash, err)
	}

	log := logger.FromContext(ctx)
	if bytes.Equal(sum, j.last) {
		log.Debug(LogMsgCatalogUnchanged, "path", j.path)
		return nil
	}

	result, err := j.loader.Sync(ctx, cfg, j.repo)
	if err != nil {
		return fmt.Errorf(ErrMsgReloadSync, err)
	}
	if j.cache != nil {
		j.cache.Invalidate(ctx)
	}
	j.last = sum

	log.Info(LogMsgCatalogReloaded,
		"path", j.path,
		"items", result.ItemsUpserted,
		"badges", result.BadgesUpserted,
		"daily_rewards", result.DailyRewardsUpserted)
	return nil
}

func fingerprint(cfg *catalog.Config) ([]byte, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}
