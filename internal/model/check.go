package model

// ChunkItem is one unit of scoring work produced by the chunker.
// UID must be unique within a batch so results can be correlated;
// it does not need to be unique across runs.
type ChunkItem struct {
	UID      string `json:"uid"`
	Text     string `json:"text"`
	TextHash string `json:"text_hash"` // SHA-256 hex digest of Text
}

// ScoreDetail records one rule's non-zero contribution to a chunk,
// or a zero-score entry whose Reason carries an evaluation error.
// Reason is diagnostic text only — nothing downstream parses it.
type ScoreDetail struct {
	RuleID string  `json:"rule_id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// CheckResult is the scored output for one chunk. Details are in rule
// evaluation order. Score is RawScore normalized per 100 words and
// rounded to 3 decimals; when WordCount is zero it equals RawScore.
type CheckResult struct {
	UID       string        `json:"uid"`
	Text      string        `json:"text"`
	RawScore  float64       `json:"raw_score"`
	Score     float64       `json:"score"`
	WordCount int           `json:"word_count"`
	Details   []ScoreDetail `json:"details"`
}

// StoredCheck is one persisted row of the checks table. Details holds
// the serialized JSON array of score details exactly as stored. TS is
// the store-assigned insertion timestamp. TextHash is empty for rows
// written before the hash column existed.
type StoredCheck struct {
	ID       int64   `json:"id"`
	UID      string  `json:"uid"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Details  string  `json:"details"`
	TS       string  `json:"ts"`
	TextHash string  `json:"text_hash,omitempty"`
}
