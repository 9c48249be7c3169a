package common

import (
	"strings"
)

// FormatTitleCase turns a snake_case identifier into a title-cased phrase,
// e.g. "lower_panic" becomes "Lower Panic". Used for limit names in
// user-facing messages.
func FormatTitleCase(s string) string {
	words := strings.Split(s, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
