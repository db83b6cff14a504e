// Package improver mines stored results for common words, phrases and
// rule-hit frequencies, and suggests new keyword rules from them.
package improver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/vmarkel/textcheck/internal/model"
	"github.com/vmarkel/textcheck/internal/storage"
)

// Count is one term with its frequency
type Count struct {
	Term string `json:"term"`
	N    int    `json:"n"`
}

// Report is the improver's output
type Report struct {
	Words       []Count      `json:"words"`
	Phrases     []Count      `json:"phrases"`
	RuleHits    []Count      `json:"rule_hits"`
	Suggestions []model.Rule `json:"suggestions"`
}

// Improver analyzes a store's recent rows
type Improver struct {
	store *storage.Store
	log   *slog.Logger
}

// New creates an improver over the given store
func New(store *storage.Store, log *slog.Logger) *Improver {
	return &Improver{store: store, log: log}
}

// AnalyzeWordFrequency tokenizes up to limit recent texts and counts
// lowercased words plus adjacent and skip-one word pairs.
func (i *Improver) AnalyzeWordFrequency(limit int) (map[string]int, map[string]int, error) {
	rows, err := i.store.QueryChecks(nil, nil, limit)
	if err != nil {
		return nil, nil, err
	}
	i.log.Info("analyzing word frequency", "rows", len(rows))

	words := make(map[string]int)
	phrases := make(map[string]int)
	for _, row := range rows {
		tokens := tokenize(row.Text)
		for _, t := range tokens {
			words[t]++
		}
		for _, p := range generatePhrases(tokens) {
			phrases[p]++
		}
	}
	return words, phrases, nil
}

// AnalyzeRuleHits counts how often each rule id appears in stored
// details. Corrupt or non-array details are skipped, not fatal.
func (i *Improver) AnalyzeRuleHits(limit int) (map[string]int, error) {
	rows, err := i.store.QueryChecks(nil, nil, limit)
	if err != nil {
		return nil, err
	}

	hits := make(map[string]int)
	for _, row := range rows {
		if row.Details == "" {
			continue
		}
		var details []model.ScoreDetail
		if err := json.Unmarshal([]byte(row.Details), &details); err != nil {
			i.log.Warn("skipping row with undecodable details", "id", row.ID)
			continue
		}
		for _, d := range details {
			if d.RuleID != "" {
				hits[d.RuleID]++
			}
		}
	}
	return hits, nil
}

// SuggestRules proposes keyword_any rules for words that appear at
// least minFreq times and are longer than three characters.
func (i *Improver) SuggestRules(words map[string]int, minFreq int) []model.Rule {
	var suggestions []model.Rule
	for _, c := range topCounts(words, len(words)) {
		if c.N >= minFreq && len(c.Term) > 3 {
			suggestions = append(suggestions, model.Rule{
				Type:     model.RuleKeywordAny,
				Keywords: []string{c.Term},
				Score:    1,
				Source:   "auto-generated",
			})
		}
	}
	return suggestions
}

// Run performs the full analysis, writes the report JSON to
// reportPath and, when rulesPath is non-empty, appends the
// suggestions to that rules file.
func (i *Improver) Run(limit, minFreq int, reportPath, rulesPath string) (*Report, error) {
	words, phrases, err := i.AnalyzeWordFrequency(limit)
	if err != nil {
		return nil, err
	}
	hits, err := i.AnalyzeRuleHits(limit)
	if err != nil {
		return nil, err
	}
	suggestions := i.SuggestRules(words, minFreq)

	report := &Report{
		Words:       topCounts(words, 200),
		Phrases:     topCounts(phrases, 200),
		RuleHits:    topCounts(hits, 200),
		Suggestions: suggestions,
	}

	if reportPath != "" {
		if err := writeJSON(report, reportPath); err != nil {
			return nil, err
		}
	}

	if rulesPath != "" && len(suggestions) > 0 {
		if err := appendRules(rulesPath, suggestions); err != nil {
			return nil, err
		}
		i.log.Info("rules file updated", "path", rulesPath, "added", len(suggestions))
	}

	i.log.Info("improver finished", "suggestions", len(suggestions))
	return report, nil
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}

// generatePhrases emits adjacent bigrams and skip-one pairs
func generatePhrases(words []string) []string {
	var phrases []string
	for i := 0; i+1 < len(words); i++ {
		phrases = append(phrases, words[i]+" "+words[i+1])
	}
	for i := 0; i+2 < len(words); i++ {
		phrases = append(phrases, words[i]+" "+words[i+2])
	}
	return phrases
}

// topCounts returns the n most frequent terms, ties broken by term
func topCounts(m map[string]int, n int) []Count {
	counts := make([]Count, 0, len(m))
	for term, c := range m {
		counts = append(counts, Count{Term: term, N: c})
	}
	sort.Slice(counts, func(a, b int) bool {
		if counts[a].N != counts[b].N {
			return counts[a].N > counts[b].N
		}
		return counts[a].Term < counts[b].Term
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// appendRules extends an existing rules file (or starts a new one)
// with the suggestions
func appendRules(path string, suggestions []model.Rule) error {
	var existing []model.Rule
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("parse existing rules: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read rules file: %w", err)
	}

	existing = append(existing, suggestions...)
	data, err := json.MarshalIndent(existing, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}
	return nil
}
