// Package store persists child profiles, game sessions, and per-word attempt
// records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/game"
)

var ErrNotFound = errors.New("store: not found")

// ChildProfile identifies a returning player by name.
type ChildProfile struct {
	ID        string
	Name      string
	Age       int
	Interests []string
	CreatedAt time.Time
}

// SessionRecord is the durable row backing one game session.
type SessionRecord struct {
	ID               string
	ChildID          string
	TotalPoints      int
	WordsCompleted   int
	WordList         []game.WordItem
	CurrentWordIndex int
	Status           string
	StartedAt        time.Time
	CompletedAt      *time.Time
}

// WordAttempt records one scored pronunciation attempt.
// RecognizerConfidence is stored as a 0-100 integer.
type WordAttempt struct {
	ID                   string
	SessionID            string
	Word                 string
	AttemptNumber        int
	Transcript           string
	PronunciationScore   int
	RecognizerConfidence int
	Success              bool
	PhonemeErrors        []string
	CreatedAt            time.Time
}

// SessionUpdate carries the mutable progress columns written after each
// attempt.
type SessionUpdate struct {
	TotalPoints      int
	WordsCompleted   int
	CurrentWordIndex int
}

type Store interface {
	// GetOrCreateChildProfile looks up a profile by name, creating one with
	// the given age and interests when absent. Empty interests default to
	// animals, space, and nature.
	GetOrCreateChildProfile(ctx context.Context, name string, age int, interests []string) (ChildProfile, error)
	CreateGameSession(ctx context.Context, childID string, wordList []game.WordItem) (SessionRecord, error)
	UpdateGameSession(ctx context.Context, id string, update SessionUpdate) error
	CompleteGameSession(ctx context.Context, id string, finalScore, wordsCompleted int) error
	CreateWordAttempt(ctx context.Context, attempt WordAttempt) error
	Close()
}

func defaultInterests(interests []string) []string {
	if len(interests) > 0 {
		return interests
	}
	return []string{"animals", "space", "nature"}
}
