package emotion

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	// MaxSequenceLength matches the input shape the BiLSTM was exported
	// with: [1, 80] int32 token ids.
	MaxSequenceLength = 80

	padTokenID     = 0
	unknownTokenID = 1
)

var nonLetterPattern = regexp.MustCompile(`[^a-z\s]`)

// Preprocess applies the same canonicalization the model was trained with:
// lowercase, letters and spaces only, single spaces.
func Preprocess(text string) string {
	lowered := strings.ToLower(text)
	lettersOnly := nonLetterPattern.ReplaceAllString(lowered, "")
	return strings.Join(strings.Fields(lettersOnly), " ")
}

// Vocabulary is the fixed word-index table the BiLSTM tokenizer was fitted
// on. Index 0 is reserved for padding, index 1 for unknown words.
type Vocabulary struct {
	index map[string]int32
}

func LoadVocabulary(path string) (*Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[Vocabulary] failed to read vocab file: %w", err)
	}

	var index map[string]int32
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("[Vocabulary] failed to parse vocab file: %w", err)
	}

	return &Vocabulary{index: index}, nil
}

func NewVocabulary(index map[string]int32) *Vocabulary {
	return &Vocabulary{index: index}
}

// Encode turns raw text into a fixed-length id sequence: preprocess, split
// on whitespace, look each token up (unknown words map to id 1), then
// right-pad with zeros or truncate to MaxSequenceLength.
func (v *Vocabulary) Encode(text string) []int32 {
	ids := make([]int32, MaxSequenceLength)

	tokens := strings.Fields(Preprocess(text))
	for i, token := range tokens {
		if i >= MaxSequenceLength {
			break
		}
		if id, ok := v.index[token]; ok {
			ids[i] = id
		} else {
			ids[i] = unknownTokenID
		}
	}

	return ids
}
