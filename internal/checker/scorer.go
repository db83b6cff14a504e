// Package checker evaluates rule sets against chunks and schedules
// batches across a bounded worker pool.
package checker

import (
	"log/slog"
	"math"
	"regexp"

	"github.com/vmarkel/textcheck/internal/model"
)

// wordRe counts "linguistic" words for normalization: runs of
// alphanumeric/underscore characters. This is deliberately different
// from the whitespace split used by the word_count_min rule — the two
// notions must not be unified, or normalization and rule firing would
// silently change together.
var wordRe = regexp.MustCompile(`\w+`)

// CountWords returns the normalization word count for text
func CountWords(text string) int {
	if text == "" {
		return 0
	}
	return len(wordRe.FindAllString(text, -1))
}

// RuleEvaluator applies one rule to one text
type RuleEvaluator interface {
	Evaluate(rule model.Rule, text string) (float64, string, error)
}

// Scorer runs a fixed rule set against single chunks. The rule set is
// immutable for the scorer's lifetime.
type Scorer struct {
	rules []model.Rule
	eval  RuleEvaluator
	log   *slog.Logger
}

// NewScorer creates a scorer over the loaded rule set
func NewScorer(rules []model.Rule, eval RuleEvaluator, log *slog.Logger) *Scorer {
	return &Scorer{rules: rules, eval: eval, log: log}
}

// ScoreChunk evaluates every rule in set order against the chunk.
// A rule that fails to evaluate becomes a zero-score detail carrying
// the error message; it never drops the chunk. The final score is the
// raw sum normalized per 100 words and rounded to 3 decimals; a chunk
// with no countable words keeps its raw score unchanged.
func (s *Scorer) ScoreChunk(item model.ChunkItem) model.CheckResult {
	rawScore := 0.0
	details := []model.ScoreDetail{} // non-nil so details always serialize as a JSON array

	for _, rule := range s.rules {
		contribution, reason, err := s.eval.Evaluate(rule, item.Text)
		if err != nil {
			s.log.Error("rule evaluation failed", "rule_id", rule.ID, "uid", item.UID, "error", err)
			details = append(details, model.ScoreDetail{
				RuleID: rule.ID,
				Score:  0,
				Reason: "error:" + err.Error(),
			})
			continue
		}
		if contribution != 0 {
			rawScore += contribution
			details = append(details, model.ScoreDetail{
				RuleID: rule.ID,
				Score:  contribution,
				Reason: reason,
			})
		}
	}

	wc := CountWords(item.Text)
	score := rawScore
	if wc > 0 {
		score = rawScore / (float64(wc) / 100)
	}
	score = math.Round(score*1000) / 1000

	return model.CheckResult{
		UID:       item.UID,
		Text:      item.Text,
		RawScore:  rawScore,
		Score:     score,
		WordCount: wc,
		Details:   details,
	}
}
