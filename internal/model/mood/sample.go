package mood

import (
	"fmt"
	"math"
	"time"
)

// Sample is a persisted sentiment snapshot derived from a batch of chat turns.
type Sample struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	SourceDescription string    `json:"sourceDescription"`
	JoyScore          float64   `json:"joyScore"`
	SadnessScore      float64   `json:"sadnessScore"`
	AngerScore        float64   `json:"angerScore"`
	OverallSentiment  float64   `json:"overallSentiment"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewSample maps a sentiment value onto the per-emotion scores.
// A positive value populates joy; zero or negative populates sadness with |value|.
func NewSample(userID string, messageCount int, value float64) Sample {
	sample := Sample{
		UserID:            userID,
		SourceDescription: Describe(messageCount),
		OverallSentiment:  value,
	}
	if value > 0 {
		sample.JoyScore = value
	} else {
		sample.SadnessScore = math.Abs(value)
	}
	return sample
}

// Describe renders the source description stored with a sample.
func Describe(messageCount int) string {
	return fmt.Sprintf("Analysis of %d messages", messageCount)
}
