package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vmarkel/textcheck/internal/model"
)

// Summarizer turns a finished run into a short Markdown digest
type Summarizer struct {
	provider Provider
	log      *slog.Logger
}

// NewSummarizer creates a summarizer over the given provider
func NewSummarizer(provider Provider, log *slog.Logger) *Summarizer {
	return &Summarizer{provider: provider, log: log}
}

// SummarizeRun builds a statistics prompt from the results and asks
// the provider for a Markdown summary. Failures degrade to an error
// the caller can log and ignore — a summary is never required for a
// run to succeed.
func (s *Summarizer) SummarizeRun(ctx context.Context, results []model.CheckResult, skipped int) (string, error) {
	prompt := BuildRunPrompt(results, skipped)
	s.log.Debug("requesting run summary", "provider", s.provider.Name())

	summary, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize run: %w", err)
	}
	return summary, nil
}

// BuildRunPrompt renders run statistics as the model's input: chunk
// and skip counts, the five highest-scoring chunks and per-rule hit
// totals. Exported so tests can check exactly what the model sees.
func BuildRunPrompt(results []model.CheckResult, skipped int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A batch scoring run finished with %d scored chunks and %d skipped duplicates.\n\n", len(results), skipped)

	top := make([]model.CheckResult, len(results))
	copy(top, results)
	sort.Slice(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > 5 {
		top = top[:5]
	}

	b.WriteString("Top scoring chunks:\n")
	for _, r := range top {
		fmt.Fprintf(&b, "- uid=%s score=%.3f raw=%.2f words=%d\n", r.UID, r.Score, r.RawScore, r.WordCount)
	}

	hits := make(map[string]int)
	for _, r := range results {
		for _, d := range r.Details {
			if d.RuleID != "" {
				hits[d.RuleID]++
			}
		}
	}
	ids := make([]string, 0, len(hits))
	for id := range hits {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b.WriteString("\nRule hits:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "- %s: %d\n", id, hits[id])
	}

	b.WriteString("\nWrite a short Markdown summary of this run.\n")
	return b.String()
}
