package companion

import (
	"fmt"
	"strings"

	model "github.com/zhouzirui/eunoia/backend/internal/model/companion"
	"github.com/zhouzirui/eunoia/backend/internal/model/persona"
)

// categoryRules tell the model how to pick recommendedCategory.
var categoryRules = []string{
	"stress or tension -> RELAXATION",
	"sadness or feeling low -> JOURNALING, CBT or MINDFULNESS",
	"anxiety or panic -> BREATHING, GROUNDING or ANXIOUS",
	"feeling overwhelmed -> GROUNDING or MEDITATION",
	"tiredness or a need for sleep -> RELAXATION or MEDITATION",
	"negative or intrusive thoughts -> CBT",
	"positive mood -> NONE",
	"anything else -> NONE",
}

// BuildSystemPrompt renders the instruction sent with every utterance.
func BuildSystemPrompt(p persona.Persona) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a %s.\n", p.Name, p.Title)
	if tone := strings.TrimSpace(p.Tone); tone != "" {
		fmt.Fprintf(&b, "Your tone is %s.\n", tone)
	}
	if hint := strings.TrimSpace(p.PromptHint); hint != "" {
		b.WriteString(hint)
		b.WriteString("\n")
	}

	b.WriteString("\nCRITICAL INSTRUCTION: You must ONLY respond in valid JSON format.\n")
	b.WriteString("Do not include markdown blocks (like ```json). Just the raw JSON object.\n")

	if len(p.RoomObjects) > 0 {
		b.WriteString("\nThe user is in a room with:\n")
		for _, obj := range p.RoomObjects {
			fmt.Fprintf(&b, "- %s (Action: %s)\n", obj.Name, strings.Join(obj.Actions, ", "))
		}
	}

	b.WriteString("\nThe JSON object must match this schema:\n")
	b.WriteString(model.SchemaJSON())
	b.WriteString("\n\nChoose recommendedCategory from the user's state:\n")
	for _, rule := range categoryRules {
		fmt.Fprintf(&b, "- %s\n", rule)
	}

	return b.String()
}
