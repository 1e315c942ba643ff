package textutil

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // Keep only the text
	input = bareURLPattern.ReplaceAllString(input, "")

	return input
}

// Flatten renders any markdown the client sent down to plain text so the
// classifiers score the words, not the markup.
func Flatten(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := htmlTagPattern.ReplaceAllString(string(output), " ")
	plainText := strings.Join(strings.Fields(stripped), " ")

	return RemoveLinks(plainText)
}

// NormalizeKey folds a message into its cache-key form: two inputs that
// differ only in case or spacing must share one cache entry.
func NormalizeKey(input string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))
	return strings.Join(strings.Fields(lowered), " ")
}
