package tutor

import (
	"fmt"

	"github.com/wordwhiz/wordwhiz/pkg/game"
)

// FallbackWordList is the curated list used whenever the generator vendor is
// unavailable. Easy words first, then medium.
func FallbackWordList() []game.WordItem {
	return []game.WordItem{
		{Word: "cat", Difficulty: "easy", Phonetic: "kæt", Hint: "Say 'c' like a hard 'k', then 'at'"},
		{Word: "dog", Difficulty: "easy", Phonetic: "dɔg", Hint: "Start with 'd', then 'og' like 'log'"},
		{Word: "sun", Difficulty: "easy", Phonetic: "sʌn", Hint: "Say 's' like a snake, then 'un'"},
		{Word: "star", Difficulty: "easy", Phonetic: "stɑr", Hint: "Combine 'st' then say 'ar' like at the doctor"},
		{Word: "moon", Difficulty: "easy", Phonetic: "mun", Hint: "Say 'm' then 'oon' like 'soon'"},
		{Word: "tree", Difficulty: "easy", Phonetic: "tri", Hint: "Say 'tr' together, then 'ee'"},
		{Word: "bird", Difficulty: "medium", Phonetic: "bɜrd", Hint: "Start with 'b', then 'ird' like 'third'"},
		{Word: "flower", Difficulty: "medium", Phonetic: "flaʊər", Hint: "Say 'fl' then 'ow' like 'cow', then 'er'"},
		{Word: "rainbow", Difficulty: "medium", Phonetic: "reɪnboʊ", Hint: "Say 'rain' then 'bow' like bow and arrow"},
		{Word: "butterfly", Difficulty: "medium", Phonetic: "bʌtərflaɪ", Hint: "Break it: 'butter' then 'fly'"},
	}
}

// FallbackFeedback covers the vendor-down path with a canned line that still
// matches the attempt outcome.
func FallbackFeedback(a Analysis) string {
	if a.Success {
		return fmt.Sprintf("Perfect! You said '%s' correctly! +10 points!", a.TargetWord)
	}
	if a.AttemptNumber < a.MaxAttempts {
		return fmt.Sprintf("Try again! Listen: %s. You can do it!", a.TargetWord)
	}
	return fmt.Sprintf("Good try! Let's practice '%s' again later. Next word!", a.TargetWord)
}
