package textproc

import (
	"fmt"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Clean collapses whitespace runs to single spaces and trims
func Clean(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// BreakIntoGroups splits cleaned text into contiguous groups of
// groupSize words; the final group may be shorter. Each chunk is the
// group's words rejoined with single spaces. Empty or whitespace-only
// input yields no chunks. groupSize must be positive.
func BreakIntoGroups(text string, groupSize int) ([]string, error) {
	if groupSize <= 0 {
		return nil, fmt.Errorf("group size must be positive, got %d", groupSize)
	}

	cleaned := Clean(text)
	if cleaned == "" {
		return nil, nil
	}

	words := strings.Split(cleaned, " ")
	groups := make([]string, 0, (len(words)+groupSize-1)/groupSize)
	for i := 0; i < len(words); i += groupSize {
		end := i + groupSize
		if end > len(words) {
			end = len(words)
		}
		groups = append(groups, strings.Join(words[i:end], " "))
	}
	return groups, nil
}
