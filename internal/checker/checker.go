package checker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/vmarkel/textcheck/internal/dedup"
	"github.com/vmarkel/textcheck/internal/model"
	"github.com/vmarkel/textcheck/internal/storage"
	"github.com/vmarkel/textcheck/internal/worker"
)

// Checker fans a batch of chunks out across a bounded worker pool,
// scores each one and, when saving, persists every result as it
// completes. A chunk's scoring or persistence failure is logged and
// excluded from the output; sibling chunks are unaffected.
type Checker struct {
	scorer  *Scorer
	store   *storage.Store
	dedup   *dedup.Deduplicator
	limiter *worker.WriteLimiter
	workers int
	log     *slog.Logger
}

// NewChecker creates a checker. store, dd and limiter may be nil:
// without a store nothing is persisted; without a limiter writes are
// unpaced.
func NewChecker(scorer *Scorer, store *storage.Store, dd *dedup.Deduplicator, limiter *worker.WriteLimiter, workers int, log *slog.Logger) *Checker {
	if workers <= 0 {
		workers = 6
	}
	return &Checker{
		scorer:  scorer,
		store:   store,
		dedup:   dd,
		limiter: limiter,
		workers: workers,
		log:     log,
	}
}

// outcome is one chunk's terminal state inside the pool
type outcome struct {
	uid    string
	result model.CheckResult
	err    error
}

// RunChecks scores the batch. Results arrive in completion order —
// callers correlating with input must key by UID. When save is true
// and a store is configured, each result is written as soon as it
// completes, not batched at the end.
func (c *Checker) RunChecks(ctx context.Context, items []model.ChunkItem, save bool) []model.CheckResult {
	if len(items) == 0 {
		return nil
	}

	pool := worker.NewPool[outcome](c.workers)
	pool.Start()

	for _, item := range items {
		item := item
		pool.Submit(func(ctx context.Context) outcome {
			return c.processItem(ctx, item, save)
		})
	}

	var results []model.CheckResult
	for _, out := range pool.Wait() {
		if out.err != nil {
			c.log.Error("chunk excluded from batch", "uid", out.uid, "error", out.err)
			continue
		}
		results = append(results, out.result)
	}
	return results
}

func (c *Checker) processItem(ctx context.Context, item model.ChunkItem, save bool) outcome {
	result := c.scorer.ScoreChunk(item)

	if save && c.store != nil {
		if err := c.persist(ctx, item, result); err != nil {
			return outcome{uid: item.UID, err: err}
		}
	}
	return outcome{uid: item.UID, result: result}
}

// persist writes one result row, pacing writes when a limiter is set.
// The stored score is the normalized one; the raw score stays in the
// returned result only.
func (c *Checker) persist(ctx context.Context, item model.ChunkItem, result model.CheckResult) error {
	detailsJSON, err := json.Marshal(result.Details)
	if err != nil {
		return err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.store.Path()); err != nil {
			return err
		}
	}

	if err := c.store.SaveCheck(result.UID, result.Text, result.Score, string(detailsJSON), item.TextHash); err != nil {
		return err
	}
	if c.dedup != nil {
		hash := item.TextHash
		if hash == "" {
			hash = dedup.HashText(item.Text)
		}
		c.dedup.Remember(hash)
	}
	return nil
}
