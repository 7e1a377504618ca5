package sentiment

import "strings"

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Result is a bounded sentiment signal: Value ∈ [-1, 1] plus a textual label.
type Result struct {
	Value float64 `json:"score"`
	Label string  `json:"type"`
}

var (
	negativeKeywords = []string{"bad", "sad", "anxious"}
	positiveKeywords = []string{"good", "happy", "great"}
)

// Score is the deterministic offline heuristic. Negative keywords win over positive ones.
func Score(text string) Result {
	normalized := strings.ToLower(text)

	if containsAny(normalized, negativeKeywords) {
		return Result{Value: -0.5, Label: LabelNegative}
	}
	if containsAny(normalized, positiveKeywords) {
		return Result{Value: 0.8, Label: LabelPositive}
	}
	return Result{Value: 0, Label: LabelNeutral}
}

func containsAny(text string, keywords []string) bool {
	for _, word := range keywords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
