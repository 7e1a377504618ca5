package intent

import (
	"strings"

	"github.com/zhouzirui/eunoia/backend/internal/model/companion"
)

// Rule maps a keyword group onto a fixed companion response.
type Rule struct {
	Name     string
	Keywords []string
	Response companion.Response
}

// Decision reports which rule produced the response.
type Decision struct {
	Rule     string
	Response companion.Response
}

const DefaultRule = "default"

// rules are evaluated in order; the first group with a keyword hit wins.
var rules = []Rule{
	{
		Name:     "anxiety",
		Keywords: []string{"anxious", "panic", "worry"},
		Response: companion.Response{
			Reply:               "That sounds really heavy. Let's slow down together: breathe in for four, hold, and breathe out for four. I'm right here with you.",
			Emotion:             companion.EmotionConcerned,
			Action:              companion.ActionBreathe,
			TargetObject:        companion.TargetMat,
			RecommendedCategory: companion.CategoryBreathing,
		},
	},
	{
		Name:     "sadness",
		Keywords: []string{"sad", "low", "depress"},
		Response: companion.Response{
			Reply:               "I'm sorry you're feeling low. Come sit with me for a bit. Writing down what's on your mind might make it feel lighter.",
			Emotion:             companion.EmotionSad,
			Action:              companion.ActionSit,
			TargetObject:        companion.TargetChair,
			RecommendedCategory: companion.CategoryJournaling,
		},
	},
	{
		Name:     "stress",
		Keywords: []string{"stress", "tense"},
		Response: companion.Response{
			Reply:               "Feeling tense is exhausting. Let's loosen up with a few slow breaths and let your shoulders drop.",
			Emotion:             companion.EmotionCalm,
			Action:              companion.ActionBreathe,
			TargetObject:        companion.TargetMat,
			RecommendedCategory: companion.CategoryRelaxation,
		},
	},
	{
		Name:     "overwhelm",
		Keywords: []string{"overwhelm"},
		Response: companion.Response{
			Reply:               "When everything piles up, it helps to ground ourselves. Name five things you can see around you, and we'll take it one step at a time.",
			Emotion:             companion.EmotionConcerned,
			Action:              companion.ActionSit,
			TargetObject:        companion.TargetMat,
			RecommendedCategory: companion.CategoryGrounding,
		},
	},
	{
		Name:     "negative-thought",
		Keywords: []string{"negative", "thought"},
		Response: companion.Response{
			Reply:               "Thoughts can be loud, but they aren't always facts. Want to look at that thought together and find a kinder way to see it?",
			Emotion:             companion.EmotionCalm,
			Action:              companion.ActionSit,
			TargetObject:        companion.TargetChair,
			RecommendedCategory: companion.CategoryCBT,
		},
	},
	{
		Name:     "sleep",
		Keywords: []string{"sleep", "rest", "tired", "nap"},
		Response: companion.Response{
			Reply:               "Rest sounds like a good idea. I'll curl up on my bed too. A calm wind-down can help you drift off.",
			Emotion:             companion.EmotionCalm,
			Action:              companion.ActionSleep,
			TargetObject:        companion.TargetBed,
			RecommendedCategory: companion.CategoryRelaxation,
		},
	},
	{
		Name:     "thirst",
		Keywords: []string{"drink", "water", "thirsty"},
		Response: companion.Response{
			Reply:               "Good call! Let's both grab some water. Staying hydrated helps your mood too.",
			Emotion:             companion.EmotionHappy,
			Action:              companion.ActionDrink,
			TargetObject:        companion.TargetWaterStation,
			RecommendedCategory: companion.CategoryNone,
		},
	},
	{
		Name:     "positivity",
		Keywords: []string{"happy", "good", "great", "love"},
		Response: companion.Response{
			Reply:               "Yay, that makes me so happy to hear! Tell me more about it!",
			Emotion:             companion.EmotionExcited,
			Action:              companion.ActionWave,
			TargetObject:        companion.TargetNone,
			RecommendedCategory: companion.CategoryNone,
		},
	},
	{
		Name:     "greeting",
		Keywords: []string{"hello", "hi"},
		Response: companion.Response{
			Reply:               "Hi there! I'm so glad you stopped by. How are you feeling today?",
			Emotion:             companion.EmotionHappy,
			Action:              companion.ActionWave,
			TargetObject:        companion.TargetNone,
			RecommendedCategory: companion.CategoryNone,
		},
	},
}

var defaultResponse = companion.Response{
	Reply:               "I'm listening. Tell me more about how you're feeling.",
	Emotion:             companion.EmotionHappy,
	Action:              companion.ActionIdle,
	TargetObject:        companion.TargetNone,
	RecommendedCategory: companion.CategoryNone,
}

// Match runs the keyword chain against the lower-cased utterance.
// Keywords are substring tests, so "hi" also matches inside "this".
func Match(utterance string) Decision {
	normalized := strings.ToLower(utterance)
	for _, rule := range rules {
		for _, word := range rule.Keywords {
			if strings.Contains(normalized, word) {
				return Decision{Rule: rule.Name, Response: rule.Response}
			}
		}
	}
	return Decision{Rule: DefaultRule, Response: defaultResponse}
}

// Rules returns a copy of the ordered chain.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}
