// Package tutor generates the coaching side of a practice session: the
// personalized word list, the spoken feedback after each attempt, and the
// fixed scripts that frame a game.
package tutor

import (
	"context"

	"github.com/wordwhiz/wordwhiz/pkg/game"
)

// Analysis is the scored outcome of one pronunciation attempt, shaped for
// feedback generation.
type Analysis struct {
	TargetWord    string   `json:"targetWord"`
	ChildSaid     string   `json:"childSaid"`
	Score         int      `json:"pronunciationScore"`
	AttemptNumber int      `json:"attemptNumber"`
	MaxAttempts   int      `json:"maxAttempts"`
	PhonemeErrors []string `json:"phonemeErrors"`
	Confidence    float64  `json:"deepgramConfidence"`
	Success       bool     `json:"success"`
}

// WordListGenerator produces an age-appropriate practice word list.
type WordListGenerator interface {
	GenerateWordList(ctx context.Context, age int, interests []string) ([]game.WordItem, error)
}

// FeedbackGenerator turns an attempt analysis into a short spoken response.
type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, analysis Analysis, childName string, currentPoints int) (string, error)
}
