package persona

// DefaultID identifies the companion used when a request names none.
const DefaultID = "eunoia"

// Persona captures the companion attributes exposed to the frontend and the model.
type Persona struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Tone        string       `json:"tone"`
	PromptHint  string       `json:"promptHint"`
	OpeningLine string       `json:"openingLine"`
	Description string       `json:"description,omitempty"`
	RoomObjects []RoomObject `json:"roomObjects,omitempty"`
}

// RoomObject is a piece of furniture the pet can walk to, with the actions it affords.
type RoomObject struct {
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

// Seed provides the default companion.
func Seed() []Persona {
	return []Persona{
		{
			ID:          DefaultID,
			Name:        "Eunoia",
			Title:       "virtual mental health companion",
			Tone:        "empathetic, comforting, concise",
			PromptHint:  "Validate the user's feelings first, then gently suggest one small, concrete step.",
			OpeningLine: "Hi! I'm here whenever you want to talk.",
			Description: "A small pet living in a cozy isometric room who keeps the user company between check-ins.",
			RoomObjects: []RoomObject{
				{Name: "BED", Actions: []string{"SLEEP", "LIE_DOWN"}},
				{Name: "CHAIR", Actions: []string{"SIT"}},
				{Name: "WATER_STATION", Actions: []string{"DRINK"}},
				{Name: "MAT", Actions: []string{"BREATHE", "MEDITATE"}},
			},
		},
	}
}
