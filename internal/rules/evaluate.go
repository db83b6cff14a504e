package rules

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/vmarkel/textcheck/internal/model"
)

// Evaluator applies one predicate rule to one piece of text. It is a
// pure function apart from logging and an internal compiled-regex
// cache, and is safe for concurrent use from scoring workers.
type Evaluator struct {
	log *slog.Logger

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp // compiled (?i) patterns; nil entry = invalid
}

// NewEvaluator creates an evaluator with an empty pattern cache
func NewEvaluator(log *slog.Logger) *Evaluator {
	return &Evaluator{
		log:      log,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// Evaluate returns the rule's score contribution and a reason string
// when the predicate fires, and (0, "") when it does not. Unknown rule
// types and invalid regex patterns are logged and treated as
// non-matches — they never return an error. The error return exists
// for the scorer boundary: any future predicate that can genuinely
// fail reports it here and the scorer degrades it to a zero-score
// detail.
func (e *Evaluator) Evaluate(rule model.Rule, text string) (float64, string, error) {
	switch rule.Type {
	case model.RuleKeywordAny:
		lowered := strings.ToLower(text)
		for _, kw := range rule.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return rule.Score, "found_keyword:" + kw, nil
			}
		}
		return 0, "", nil

	case model.RuleUppercaseRatio:
		letters, uppers := 0, 0
		for _, r := range text {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					uppers++
				}
			}
		}
		if letters == 0 {
			return 0, "", nil
		}
		ratio := float64(uppers) / float64(letters)
		if ratio >= rule.ThresholdOrDefault() {
			return rule.Score, fmt.Sprintf("uppercase_ratio:%.2f", ratio), nil
		}
		return 0, "", nil

	case model.RuleLengthMin:
		n := utf8.RuneCountInString(text)
		if n >= rule.MinChars {
			return rule.Score, fmt.Sprintf("length:%d", n), nil
		}
		return 0, "", nil

	case model.RuleRegexMatch:
		if rule.Pattern == "" {
			return 0, "", nil
		}
		re := e.compiled(rule)
		if re == nil {
			return 0, "", nil
		}
		if re.MatchString(text) {
			return rule.Score, "regex_match:" + rule.Pattern, nil
		}
		return 0, "", nil

	case model.RuleContainsPhrase:
		phrase := strings.ToLower(rule.Phrase)
		if phrase != "" && strings.Contains(strings.ToLower(text), phrase) {
			return rule.Score, "found_phrase:" + phrase, nil
		}
		return 0, "", nil

	case model.RuleWordCountMin:
		n := len(strings.Fields(text))
		if n >= rule.MinWords {
			return rule.Score, fmt.Sprintf("word_count:%d", n), nil
		}
		return 0, "", nil

	case model.RuleStartsWith:
		if rule.Prefix != "" && strings.HasPrefix(text, rule.Prefix) {
			return rule.Score, "starts_with:" + rule.Prefix, nil
		}
		return 0, "", nil

	case model.RuleEndsWith:
		if rule.Suffix != "" && strings.HasSuffix(text, rule.Suffix) {
			return rule.Score, "ends_with:" + rule.Suffix, nil
		}
		return 0, "", nil

	case model.RuleNotContains:
		word := strings.ToLower(rule.Word)
		if word != "" && !strings.Contains(strings.ToLower(text), word) {
			return rule.Score, "not_contains:" + word, nil
		}
		return 0, "", nil
	}

	e.log.Warn("unknown rule type", "rule_id", rule.ID, "type", string(rule.Type))
	return 0, "", nil
}

// compiled returns the case-insensitive compiled form of the rule's
// pattern, caching both successes and failures. Invalid patterns are
// logged once and yield nil.
func (e *Evaluator) compiled(rule model.Rule) *regexp.Regexp {
	e.mu.RLock()
	re, ok := e.patterns[rule.Pattern]
	e.mu.RUnlock()
	if ok {
		return re
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.patterns[rule.Pattern]; ok {
		return re
	}

	re, err := regexp.Compile("(?i)" + rule.Pattern)
	if err != nil {
		e.log.Error("invalid regex in rule", "rule_id", rule.ID, "pattern", rule.Pattern, "error", err)
		re = nil
	}
	e.patterns[rule.Pattern] = re
	return re
}
