package emotion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "I FEEL Sad", "i feel sad"},
		{"strips punctuation and digits", "lost my job!!! 3 days ago...", "lost my job days ago"},
		{"collapses whitespace", "so   very \t lonely", "so very lonely"},
		{"empty input", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Preprocess(tc.input))
		})
	}
}

func testVocab() *Vocabulary {
	return NewVocabulary(map[string]int32{
		"i":    2,
		"feel": 3,
		"sad":  4,
		"so":   5,
	})
}

func TestVocabulary_Encode(t *testing.T) {
	ids := testVocab().Encode("I feel SO sad")

	assert.Len(t, ids, MaxSequenceLength)
	assert.Equal(t, []int32{2, 3, 5, 4}, ids[:4])
	for _, id := range ids[4:] {
		assert.Equal(t, int32(padTokenID), id, "tail must be zero padding")
	}
}

func TestVocabulary_EncodeUnknownWords(t *testing.T) {
	ids := testVocab().Encode("i feel utterly desolate")

	assert.Equal(t, []int32{2, 3, 1, 1}, ids[:4], "out-of-vocabulary words map to id 1")
}

func TestVocabulary_EncodeTruncates(t *testing.T) {
	long := strings.Repeat("sad ", 120)
	ids := testVocab().Encode(long)

	assert.Len(t, ids, MaxSequenceLength)
	assert.Equal(t, int32(4), ids[MaxSequenceLength-1], "over-length input is truncated, not padded")
}
