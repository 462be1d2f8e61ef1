// Package phonetic reduces words to compact pronunciation keys so that
// spelling variants and homophones compare as equal.
package phonetic

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Key returns the phonetic key for a word: the primary double-metaphone
// encoding, or the word itself when the encoder produces nothing (digits,
// punctuation-only input and the like).
func Key(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	primary, _ := matchr.DoubleMetaphone(word)
	if primary == "" {
		return word
	}
	return primary
}
