package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten_StripsMarkdown(t *testing.T) {
	input := "I feel **really** low today.\n\n- nothing helps\n- can't sleep"
	got := Flatten(input)

	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "-")
	assert.Contains(t, got, "really low today")
}

func TestFlatten_RemovesLinks(t *testing.T) {
	input := "read [this article](https://example.com/sad) and https://example.org too"
	got := Flatten(input)

	assert.Contains(t, got, "this article")
	assert.NotContains(t, got, "example.com")
	assert.NotContains(t, got, "example.org")
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
	}{
		{"case folding", "I Feel Sad", "i feel sad"},
		{"outer whitespace", "  i feel sad  ", "i feel sad"},
		{"inner whitespace", "i   feel\tsad", "i feel sad"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, NormalizeKey(tc.b), NormalizeKey(tc.a))
		})
	}
}
