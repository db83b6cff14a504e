package model

// RuleType identifies which predicate a rule evaluates
type RuleType string

const (
	RuleKeywordAny     RuleType = "keyword_any"     // Any keyword is a substring (case-insensitive)
	RuleUppercaseRatio RuleType = "uppercase_ratio" // Uppercase-letter ratio meets a threshold
	RuleLengthMin      RuleType = "length_min"      // Character length meets a minimum
	RuleRegexMatch     RuleType = "regex_match"     // Pattern found anywhere (case-insensitive)
	RuleContainsPhrase RuleType = "contains_phrase" // Phrase is a substring (case-insensitive)
	RuleWordCountMin   RuleType = "word_count_min"  // Whitespace-split token count meets a minimum
	RuleStartsWith     RuleType = "starts_with"     // Text starts with prefix (case-sensitive)
	RuleEndsWith       RuleType = "ends_with"       // Text ends with suffix (case-sensitive)
	RuleNotContains    RuleType = "not_contains"    // Word is NOT a substring (case-insensitive)
)

// Rule is one declarative predicate with its score contribution.
// Only the parameter fields matching Type are meaningful; the rest stay
// zero. IDs may repeat across a rule set — they are labels, not keys.
type Rule struct {
	ID    string   `json:"id,omitempty"`
	Type  RuleType `json:"type"`
	Score float64  `json:"score"`

	// keyword_any
	Keywords []string `json:"keywords,omitempty"`

	// uppercase_ratio; nil means the default threshold of 1.0
	Threshold *float64 `json:"threshold,omitempty"`

	// length_min
	MinChars int `json:"min_chars,omitempty"`

	// regex_match
	Pattern string `json:"pattern,omitempty"`

	// contains_phrase
	Phrase string `json:"phrase,omitempty"`

	// word_count_min
	MinWords int `json:"min_words,omitempty"`

	// starts_with
	Prefix string `json:"prefix,omitempty"`

	// ends_with
	Suffix string `json:"suffix,omitempty"`

	// not_contains
	Word string `json:"word,omitempty"`

	// Source marks where the rule came from (e.g. "auto-generated")
	Source string `json:"source,omitempty"`
}

// ThresholdOrDefault returns the uppercase_ratio threshold, defaulting to 1.0
func (r Rule) ThresholdOrDefault() float64 {
	if r.Threshold == nil {
		return 1.0
	}
	return *r.Threshold
}
