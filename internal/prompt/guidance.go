package prompt

// emotionGuidance tells the LLM how to meet each canonical emotion.
// Unrecognized labels fall back to the neutral line.
var emotionGuidance = map[string]string{
	"angry":    "They are angry. Do not defend whoever upset them and do not rush them to calm down; let the anger be heard first, then help them find what sits underneath it.",
	"disgust":  "They feel disgust or deep aversion. Take the reaction seriously rather than talking them out of it; help them name what crossed the line for them.",
	"fear":     "They are afraid. Slow down, keep your language steady and concrete, and help them separate what is actually happening from what they dread might happen.",
	"happy":    "They are feeling good. Celebrate with them genuinely; do not dampen it or hunt for problems. Ask what made this possible so the feeling lasts.",
	"neutral":  "Their emotional state is unclear or steady. Stay warm and curious, and follow their lead rather than assuming something is wrong.",
	"sad":      "They are sad. Do not try to fix it or brighten it; sit with them in it. Small acknowledgments matter more than solutions right now.",
	"surprise": "Something unexpected has landed on them. Help them get their bearings before exploring what it means.",
}

func guidanceFor(emotion string) string {
	if g, ok := emotionGuidance[emotion]; ok {
		return g
	}
	return emotionGuidance["neutral"]
}
