package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wordwhiz/wordwhiz/pkg/game"
)

// MemoryStore keeps everything in process. Used for local runs without a
// database and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]ChildProfile // keyed by name
	sessions map[string]SessionRecord
	attempts map[string][]WordAttempt // keyed by session ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]ChildProfile),
		sessions: make(map[string]SessionRecord),
		attempts: make(map[string][]WordAttempt),
	}
}

func (s *MemoryStore) GetOrCreateChildProfile(ctx context.Context, name string, age int, interests []string) (ChildProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[name]; ok {
		return p, nil
	}
	p := ChildProfile{
		ID:        uuid.NewString(),
		Name:      name,
		Age:       age,
		Interests: defaultInterests(interests),
		CreatedAt: time.Now().UTC(),
	}
	s.profiles[name] = p
	return p, nil
}

func (s *MemoryStore) CreateGameSession(ctx context.Context, childID string, wordList []game.WordItem) (SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := SessionRecord{
		ID:        uuid.NewString(),
		ChildID:   childID,
		WordList:  wordList,
		Status:    "active",
		StartedAt: time.Now().UTC(),
	}
	s.sessions[rec.ID] = rec
	return rec, nil
}

func (s *MemoryStore) UpdateGameSession(ctx context.Context, id string, update SessionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	rec.TotalPoints = update.TotalPoints
	rec.WordsCompleted = update.WordsCompleted
	rec.CurrentWordIndex = update.CurrentWordIndex
	s.sessions[id] = rec
	return nil
}

func (s *MemoryStore) CompleteGameSession(ctx context.Context, id string, finalScore, wordsCompleted int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	rec.Status = "completed"
	rec.TotalPoints = finalScore
	rec.WordsCompleted = wordsCompleted
	rec.CompletedAt = &now
	s.sessions[id] = rec
	return nil
}

func (s *MemoryStore) CreateWordAttempt(ctx context.Context, attempt WordAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}
	s.attempts[attempt.SessionID] = append(s.attempts[attempt.SessionID], attempt)
	return nil
}

func (s *MemoryStore) Close() {}

// Session returns a stored session record. Test helper.
func (s *MemoryStore) Session(id string) (SessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	return rec, ok
}

// Attempts returns stored attempts for a session. Test helper.
func (s *MemoryStore) Attempts(sessionID string) []WordAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WordAttempt(nil), s.attempts[sessionID]...)
}

var _ Store = (*MemoryStore)(nil)
