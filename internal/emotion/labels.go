package emotion

// CanonicalLabels is the closed label set every classifier output is mapped
// onto before fusion. Order matters: it is the tie-break order when two
// fused scores are exactly equal.
var CanonicalLabels = []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}

// LocalModelLabels is the fixed output order of the BiLSTM artifact. It has
// no surprise class.
var LocalModelLabels = []string{"angry", "disgust", "fear", "happy", "neutral", "sad"}

// normalizationTable maps model-specific vocabularies onto the canonical
// set. Anything not listed passes through unchanged.
var normalizationTable = map[string]string{
	"joy":     "happy",
	"sadness": "sad",
	"anger":   "angry",
}

func Normalize(raw string) string {
	if canonical, ok := normalizationTable[raw]; ok {
		return canonical
	}
	return raw
}

func IsCanonical(label string) bool {
	for _, l := range CanonicalLabels {
		if l == label {
			return true
		}
	}
	return false
}
