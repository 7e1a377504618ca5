package mood

import (
	"math"
	"testing"
)

func TestNewSampleScoreMapping(t *testing.T) {
	cases := []struct {
		value   float64
		joy     float64
		sadness float64
	}{
		{value: 0.8, joy: 0.8, sadness: 0},
		{value: 0.0001, joy: 0.0001, sadness: 0},
		{value: 0, joy: 0, sadness: 0},
		{value: -0.5, joy: 0, sadness: 0.5},
		{value: -1, joy: 0, sadness: 1},
	}

	for _, tc := range cases {
		sample := NewSample("u-1", 3, tc.value)
		if sample.JoyScore != tc.joy || sample.SadnessScore != tc.sadness {
			t.Fatalf("value %v: got joy=%v sadness=%v", tc.value, sample.JoyScore, sample.SadnessScore)
		}
		if sample.OverallSentiment != tc.value {
			t.Fatalf("value %v: overall=%v", tc.value, sample.OverallSentiment)
		}
		if sample.AngerScore != 0 {
			t.Fatalf("anger should stay zero, got %v", sample.AngerScore)
		}
		if sample.JoyScore != 0 && sample.SadnessScore != 0 {
			t.Fatalf("value %v: both joy and sadness populated", tc.value)
		}
	}
}

func TestNewSampleNegativeZero(t *testing.T) {
	sample := NewSample("u-1", 1, math.Copysign(0, -1))
	if sample.JoyScore != 0 || sample.SadnessScore != 0 {
		t.Fatalf("unexpected scores %+v", sample)
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(20); got != "Analysis of 20 messages" {
		t.Fatalf("unexpected description %q", got)
	}
	if got := NewSample("u", 1, 0).SourceDescription; got != "Analysis of 1 messages" {
		t.Fatalf("unexpected description %q", got)
	}
}
