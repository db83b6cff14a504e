// Package pipeline wires the full flow: break raw text into chunks,
// deduplicate against the store, score across the worker pool and
// persist surviving results.
package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vmarkel/textcheck/internal/checker"
	"github.com/vmarkel/textcheck/internal/dedup"
	"github.com/vmarkel/textcheck/internal/model"
	"github.com/vmarkel/textcheck/internal/rules"
	"github.com/vmarkel/textcheck/internal/storage"
	"github.com/vmarkel/textcheck/internal/textproc"
	"github.com/vmarkel/textcheck/internal/worker"
)

// Result is what a batch run hands back to the caller: the scored
// chunks (completion order) and how many duplicates were skipped.
// The result list may be shorter than the chunked input — duplicates
// are skipped, failed chunks are excluded.
type Result struct {
	Checks  []model.CheckResult `json:"checks"`
	Skipped int                 `json:"skipped"`
}

// Pipeline runs batches against one loaded rule set and one store.
// Rules are loaded once at construction; a malformed rules file is a
// fatal error before any scoring starts.
type Pipeline struct {
	cfg     *model.Config
	rules   []model.Rule
	store   *storage.Store
	dedup   *dedup.Deduplicator
	checker *checker.Checker
	log     *slog.Logger
}

// New builds a pipeline from configuration. The store is always
// opened (search/export need it); whether a given run writes to it is
// decided per call via save.
func New(cfg *model.Config, log *slog.Logger) (*Pipeline, error) {
	loaded, err := rules.Load(cfg.RulesPath, log)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	log.Info("loaded rules", "count", len(loaded), "path", cfg.RulesPath)

	store, err := storage.New(cfg.Storage.Path, cfg.Storage.BusyTimeout, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	dd := dedup.New(store, cfg.Dedup.CacheTTL, cfg.Dedup.CleanupInterval, log)
	limiter := worker.NewWriteLimiter(cfg.RateLimit.WritesPerSecond, cfg.RateLimit.Burst)
	scorer := checker.NewScorer(loaded, rules.NewEvaluator(log), log)

	return &Pipeline{
		cfg:     cfg,
		rules:   loaded,
		store:   store,
		dedup:   dd,
		checker: checker.NewChecker(scorer, store, dd, limiter, cfg.Pipeline.Workers, log),
		log:     log,
	}, nil
}

// Rules returns the loaded rule set
func (p *Pipeline) Rules() []model.Rule {
	return p.rules
}

// Store returns the underlying record store
func (p *Pipeline) Store() *storage.Store {
	return p.store
}

// Process chunks the given documents, drops chunks whose content hash
// is already persisted (only when save is true — without persistence
// there is no hash index, so every chunk is scored) and schedules the
// rest. See Result for what comes back.
func (p *Pipeline) Process(ctx context.Context, texts []string, save bool) (*Result, error) {
	if len(texts) == 0 {
		p.log.Warn("process called with no input text")
		return &Result{}, nil
	}

	items, err := MakeItems(texts, p.cfg.Pipeline.GroupSize)
	if err != nil {
		return nil, err
	}
	p.log.Info("prepared chunk items", "chunks", len(items), "texts", len(texts))

	unique := items
	skipped := 0
	if save {
		unique = make([]model.ChunkItem, 0, len(items))
		for _, item := range items {
			seen, err := p.dedup.Seen(item.TextHash)
			if err != nil {
				p.log.Error("dedup lookup failed; scoring chunk anyway", "uid", item.UID, "error", err)
			} else if seen {
				skipped++
				continue
			}
			unique = append(unique, item)
		}
		p.log.Info("deduplication complete", "unique", len(unique), "skipped", skipped)
	}

	results := p.checker.RunChecks(ctx, unique, save)
	p.log.Info("batch complete", "results", len(results), "skipped", skipped)

	return &Result{Checks: results, Skipped: skipped}, nil
}

// ProcessFolder loads every matching document from dir and runs
// Process over them. Files are read in sorted name order with lossy
// decoding; unreadable files are logged and skipped.
func (p *Pipeline) ProcessFolder(ctx context.Context, dir string, save bool) (*Result, error) {
	texts, err := textproc.LoadFolder(dir, p.cfg.Pipeline.FileExt, p.log)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, texts, save)
}

// BreakOnly chunks documents without scoring them. This is the
// rules-less mode: callers get uid-tagged, hashed chunk items and no
// pipeline is constructed, so no rules file or store is needed.
func BreakOnly(texts []string, groupSize int) ([]model.ChunkItem, error) {
	return MakeItems(texts, groupSize)
}

// MakeItems chunks each document and assigns batch-unique uids of the
// form "<docIdx>-<chunkIdx>-<8 hex chars>". Content hashes are
// computed up front so deduplication never re-hashes.
func MakeItems(texts []string, groupSize int) ([]model.ChunkItem, error) {
	var items []model.ChunkItem
	for ti, text := range texts {
		chunks, err := textproc.BreakIntoGroups(text, groupSize)
		if err != nil {
			return nil, err
		}
		for ci, chunk := range chunks {
			items = append(items, model.ChunkItem{
				UID:      fmt.Sprintf("%d-%d-%s", ti, ci, shortID()),
				Text:     chunk,
				TextHash: dedup.HashText(chunk),
			})
		}
	}
	return items, nil
}

func shortID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}
