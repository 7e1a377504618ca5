package companion

import (
	"errors"
	"fmt"
	"strings"
)

// Emotion is the facial/body mood the pet should display.
type Emotion string

const (
	EmotionHappy     Emotion = "HAPPY"
	EmotionSad       Emotion = "SAD"
	EmotionConcerned Emotion = "CONCERNED"
	EmotionCalm      Emotion = "CALM"
	EmotionExcited   Emotion = "EXCITED"
)

// Action is the animation the pet should play.
type Action string

const (
	ActionIdle    Action = "IDLE"
	ActionWalk    Action = "WALK"
	ActionWave    Action = "WAVE"
	ActionSit     Action = "SIT"
	ActionSleep   Action = "SLEEP"
	ActionDrink   Action = "DRINK"
	ActionBreathe Action = "BREATHE"
)

// TargetObject is the room object the action is performed at.
type TargetObject string

const (
	TargetNone         TargetObject = "NONE"
	TargetBed          TargetObject = "BED"
	TargetChair        TargetObject = "CHAIR"
	TargetWaterStation TargetObject = "WATER_STATION"
	TargetMat          TargetObject = "MAT"
)

// Category is the coping-exercise category suggested to the user.
type Category string

const (
	CategoryNone        Category = "NONE"
	CategoryBreathing   Category = "BREATHING"
	CategoryGrounding   Category = "GROUNDING"
	CategoryMindfulness Category = "MINDFULNESS"
	CategoryRelaxation  Category = "RELAXATION"
	CategoryCBT         Category = "CBT"
	CategoryJournaling  Category = "JOURNALING"
	CategoryMeditation  Category = "MEDITATION"
	CategoryAnxious     Category = "ANXIOUS"
	CategoryLow         Category = "LOW"
	CategoryOverwhelmed Category = "OVERWHELMED"
)

var (
	Emotions     = []Emotion{EmotionHappy, EmotionSad, EmotionConcerned, EmotionCalm, EmotionExcited}
	Actions      = []Action{ActionIdle, ActionWalk, ActionWave, ActionSit, ActionSleep, ActionDrink, ActionBreathe}
	Targets      = []TargetObject{TargetNone, TargetBed, TargetChair, TargetWaterStation, TargetMat}
	Categories   = []Category{CategoryNone, CategoryBreathing, CategoryGrounding, CategoryMindfulness, CategoryRelaxation, CategoryCBT, CategoryJournaling, CategoryMeditation, CategoryAnxious, CategoryLow, CategoryOverwhelmed}
	ErrMalformed = errors.New("malformed companion response")
)

// Response is the structured reply produced for one user utterance.
type Response struct {
	Reply               string       `json:"reply" jsonschema:"required,description=Your spoken response to the user"`
	Emotion             Emotion      `json:"emotion" jsonschema:"required,enum=HAPPY,enum=SAD,enum=CONCERNED,enum=CALM,enum=EXCITED"`
	Action              Action       `json:"action" jsonschema:"required,enum=IDLE,enum=WALK,enum=WAVE,enum=SIT,enum=SLEEP,enum=DRINK,enum=BREATHE"`
	TargetObject        TargetObject `json:"targetObject" jsonschema:"required,enum=NONE,enum=BED,enum=CHAIR,enum=WATER_STATION,enum=MAT"`
	RecommendedCategory Category     `json:"recommendedCategory" jsonschema:"required,enum=NONE,enum=BREATHING,enum=GROUNDING,enum=MINDFULNESS,enum=RELAXATION,enum=CBT,enum=JOURNALING,enum=MEDITATION,enum=ANXIOUS,enum=LOW,enum=OVERWHELMED"`
}

// Normalize upper-cases the tags and defaults a missing recommended category to NONE.
func (r *Response) Normalize() {
	r.Reply = strings.TrimSpace(r.Reply)
	r.Emotion = Emotion(normalizeTag(string(r.Emotion)))
	r.Action = Action(normalizeTag(string(r.Action)))
	r.TargetObject = TargetObject(normalizeTag(string(r.TargetObject)))
	r.RecommendedCategory = Category(normalizeTag(string(r.RecommendedCategory)))
	if r.RecommendedCategory == "" {
		r.RecommendedCategory = CategoryNone
	}
}

// Validate reports a schema mismatch: empty reply or a tag outside its enum.
func (r Response) Validate() error {
	if r.Reply == "" {
		return fmt.Errorf("%w: reply is empty", ErrMalformed)
	}
	if !contains(Emotions, r.Emotion) {
		return fmt.Errorf("%w: unknown emotion %q", ErrMalformed, r.Emotion)
	}
	if !contains(Actions, r.Action) {
		return fmt.Errorf("%w: unknown action %q", ErrMalformed, r.Action)
	}
	if !contains(Targets, r.TargetObject) {
		return fmt.Errorf("%w: unknown targetObject %q", ErrMalformed, r.TargetObject)
	}
	if !contains(Categories, r.RecommendedCategory) {
		return fmt.Errorf("%w: unknown recommendedCategory %q", ErrMalformed, r.RecommendedCategory)
	}
	return nil
}

func normalizeTag(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
