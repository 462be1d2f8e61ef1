package tutor

import (
	"fmt"
	"strings"

	"github.com/wordwhiz/wordwhiz/pkg/game"
)

// Greeting opens the session before the first word.
func Greeting(childName string, interests []string) string {
	return fmt.Sprintf("Hi %s! I'm your pronunciation buddy! Today we'll practice fun words about %s. Ready to start?",
		childName, strings.Join(interests, ", "))
}

// FirstWordIntroduction presents the opening word with its hint.
func FirstWordIntroduction(w game.WordItem) string {
	return fmt.Sprintf("Let's practice the word '%s'. Listen: %s. %s. Now you try!", w.Word, w.Word, w.Hint)
}

// NextWordIntroduction presents every word after the first.
func NextWordIntroduction(w game.WordItem) string {
	return fmt.Sprintf("Next word: '%s'. Listen: %s. %s. Your turn!", w.Word, w.Word, w.Hint)
}

// CompletionSummary closes the session once the word list is exhausted.
func CompletionSummary(childName string, totalScore int) string {
	return fmt.Sprintf("Amazing job, %s! You completed all words and earned %d points! You're a pronunciation star!",
		childName, totalScore)
}
