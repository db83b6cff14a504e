package rules

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/vmarkel/textcheck/internal/model"
)

// Load reads a rule set from a JSON file. The payload must be a JSON
// array of rule objects; anything else is a fatal load error. Rules
// with structural problems that only degrade evaluation (an invalid
// regex pattern, an unknown type) are kept and warned about here so
// they fail visibly at startup instead of silently per chunk.
func Load(path string, log *slog.Logger) ([]model.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var loaded []model.Rule
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse rules JSON (must be an array of rule objects): %w", err)
	}

	for _, r := range loaded {
		switch r.Type {
		case model.RuleKeywordAny, model.RuleUppercaseRatio, model.RuleLengthMin,
			model.RuleContainsPhrase, model.RuleWordCountMin, model.RuleStartsWith,
			model.RuleEndsWith, model.RuleNotContains:
			// fine
		case model.RuleRegexMatch:
			if _, err := regexp.Compile("(?i)" + r.Pattern); err != nil {
				log.Warn("rule has invalid regex pattern; it will never match",
					"rule_id", r.ID, "pattern", r.Pattern, "error", err)
			}
		default:
			log.Warn("rule has unknown type; it will contribute nothing",
				"rule_id", r.ID, "type", string(r.Type))
		}
	}

	return loaded, nil
}
