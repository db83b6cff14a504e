// Package search provides substring/regex lookup and CSV export over
// stored check records. It is a consumer of the store's query
// contract, not part of the scoring pipeline.
package search

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/vmarkel/textcheck/internal/model"
	"github.com/vmarkel/textcheck/internal/storage"
)

// Search returns stored records whose text or uid matches the query,
// case-insensitive, scanning at most limit recent rows. With useRegex
// the query is compiled as a pattern; otherwise it is a plain
// substring.
func Search(store *storage.Store, query string, limit int, useRegex bool, log *slog.Logger) ([]model.StoredCheck, error) {
	if query == "" {
		log.Warn("empty search query")
		return nil, nil
	}

	rows, err := store.QueryChecks(nil, nil, limit)
	if err != nil {
		return nil, err
	}

	var matched []model.StoredCheck
	if useRegex {
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", query, err)
		}
		for _, r := range rows {
			if re.MatchString(r.Text) || re.MatchString(r.UID) {
				matched = append(matched, r)
			}
		}
	} else {
		q := strings.ToLower(query)
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Text), q) || strings.Contains(strings.ToLower(r.UID), q) {
				matched = append(matched, r)
			}
		}
	}

	log.Info("search complete", "matches", len(matched), "query", query)
	return matched, nil
}

// ByScore returns up to limit rows within the inclusive score bounds,
// newest-first. Nil bounds are open.
func ByScore(store *storage.Store, minScore, maxScore *float64, limit int) ([]model.StoredCheck, error) {
	return store.QueryChecks(minScore, maxScore, limit)
}
