// Package classifier performs lexical fraud-indicator matching over call
// transcripts. Matching is substring-based over a fixed phrase list; there
// is deliberately no semantic understanding here.
package classifier

import (
	"strings"
	"sync"

	"github.com/Sohailkhan2204/detectscam/internal/model"
)

// Result is a classified transcript. Confidence is a crude linear signal
// for relative ranking, not a calibrated probability.
type Result struct {
	Indicators []string
	Severity   model.Severity
	Confidence int
}

// maxConfidence caps the linear confidence scale.
const maxConfidence = 95

// confidencePerIndicator is the score contributed by each distinct match.
const confidencePerIndicator = 30

// Classifier matches transcripts against an indicator phrase list.
// The list is swappable at runtime to support hot-reload; Classify itself
// is pure and safe for concurrent use.
type Classifier struct {
	mu      sync.RWMutex
	phrases []string
}

// New creates a Classifier over the given phrase list. Phrases are matched
// case-insensitively as opaque substrings, in list order.
func New(phrases []string) *Classifier {
	c := &Classifier{}
	c.SetPhrases(phrases)
	return c
}

// NewDefault creates a Classifier with the builtin indicator list.
func NewDefault() *Classifier {
	return New(DefaultPhrases)
}

// Classify matches text against the indicator list. It returns false when
// no indicator is present; no match means no alert.
func (c *Classifier) Classify(text string) (Result, bool) {
	normalized := strings.ToLower(text)

	c.mu.RLock()
	phrases := c.phrases
	c.mu.RUnlock()

	var indicators []string
	seen := make(map[string]bool)
	for _, phrase := range phrases {
		if seen[phrase] {
			continue
		}
		if strings.Contains(normalized, phrase) {
			seen[phrase] = true
			indicators = append(indicators, phrase)
		}
	}

	n := len(indicators)
	if n == 0 {
		return Result{}, false
	}

	severity := model.SeverityMedium
	if n >= 2 {
		severity = model.SeverityHigh
	}

	confidence := confidencePerIndicator * n
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return Result{
		Indicators: indicators,
		Severity:   severity,
		Confidence: confidence,
	}, true
}

// SetPhrases atomically replaces the active indicator list. Phrases are
// lowercased; empty entries are dropped.
func (c *Classifier) SetPhrases(phrases []string) {
	cleaned := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}

	c.mu.Lock()
	c.phrases = cleaned
	c.mu.Unlock()
}

// Phrases returns a copy of the active indicator list.
func (c *Classifier) Phrases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.phrases))
	copy(out, c.phrases)
	return out
}
