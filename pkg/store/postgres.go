package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordwhiz/wordwhiz/pkg/errorsx"
	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/logging"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS child_profiles (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	age        INT NOT NULL,
	interests  TEXT[] NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS game_sessions (
	id                 UUID PRIMARY KEY,
	child_id           UUID NOT NULL REFERENCES child_profiles(id),
	total_points       INT NOT NULL DEFAULT 0,
	words_completed    INT NOT NULL DEFAULT 0,
	word_list          JSONB NOT NULL,
	current_word_index INT NOT NULL DEFAULT 0,
	status             TEXT NOT NULL DEFAULT 'active',
	started_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at       TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS word_attempts (
	id                    UUID PRIMARY KEY,
	session_id            UUID NOT NULL REFERENCES game_sessions(id),
	word                  TEXT NOT NULL,
	attempt_number        INT NOT NULL,
	transcript            TEXT NOT NULL,
	pronunciation_score   INT NOT NULL,
	recognizer_confidence INT NOT NULL,
	success               BOOLEAN NOT NULL,
	phoneme_errors        TEXT[] NOT NULL DEFAULT '{}',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresStore persists game data on a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonStoreConnect)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errorsx.Wrap(err, errorsx.ReasonStoreConnect)
	}

	s := &PostgresStore{
		pool:   pool,
		logger: logging.NewComponentLogger(slog.Default(), "postgres_store"),
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s.logger.Info("postgres_connected")
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreConnect)
	}
	return nil
}

func (s *PostgresStore) GetOrCreateChildProfile(ctx context.Context, name string, age int, interests []string) (ChildProfile, error) {
	var p ChildProfile
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, age, interests, created_at FROM child_profiles WHERE name = $1`, name)
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Interests, &p.CreatedAt)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ChildProfile{}, errorsx.Wrap(err, errorsx.ReasonStoreWrite)
	}

	p = ChildProfile{
		ID:        uuid.NewString(),
		Name:      name,
		Age:       age,
		Interests: defaultInterests(interests),
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO child_profiles (id, name, age, interests, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Age, p.Interests, p.CreatedAt)
	if err != nil {
		return ChildProfile{}, errorsx.Wrap(err, errorsx.ReasonStoreWrite)
	}

	s.logger.Info("child_profile_created",
		slog.String("child_id", p.ID),
		slog.String("name", p.Name))
	return p, nil
}

func (s *PostgresStore) CreateGameSession(ctx context.Context, childID string, wordList []game.WordItem) (SessionRecord, error) {
	wordsJSON, err := json.Marshal(wordList)
	if err != nil {
		return SessionRecord{}, errorsx.Wrap(err, errorsx.ReasonStoreWrite)
	}

	rec := SessionRecord{
		ID:        uuid.NewString(),
		ChildID:   childID,
		WordList:  wordList,
		Status:    "active",
		StartedAt: time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO game_sessions (id, child_id, total_points, words_completed, word_list, current_word_index, status, started_at)
		 VALUES ($1, $2, 0, 0, $3, 0, 'active', $4)`,
		rec.ID, rec.ChildID, wordsJSON, rec.StartedAt)
	if err != nil {
		return SessionRecord{}, errorsx.Wrap(err, errorsx.ReasonStoreWrite)
	}

	s.logger.Info("game_session_created",
		slog.String("session_id", rec.ID),
		slog.String("child_id", childID),
		slog.Int("word_count", len(wordList)))
	return rec, nil
}

func (s *PostgresStore) UpdateGameSession(ctx context.Context, id string, update SessionUpdate) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE game_sessions SET total_points = $2, words_completed = $3, current_word_index = $4 WHERE id = $1`,
		id, update.TotalPoints, update.WordsCompleted, update.CurrentWordIndex)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreWrite)
	}
	return nil
}

func (s *PostgresStore) CompleteGameSession(ctx context.Context, id string, finalScore, wordsCompleted int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE game_sessions
		 SET status = 'completed', total_points = $2, words_completed = $3, completed_at = now()
		 WHERE id = $1`,
		id, finalScore, wordsCompleted)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreWrite)
	}

	s.logger.Info("game_session_completed",
		slog.String("session_id", id),
		slog.Int("final_score", finalScore),
		slog.Int("words_completed", wordsCompleted))
	return nil
}

func (s *PostgresStore) CreateWordAttempt(ctx context.Context, attempt WordAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.PhonemeErrors == nil {
		attempt.PhonemeErrors = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO word_attempts (id, session_id, word, attempt_number, transcript, pronunciation_score, recognizer_confidence, success, phoneme_errors, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
		attempt.ID, attempt.SessionID, attempt.Word, attempt.AttemptNumber, attempt.Transcript,
		attempt.PronunciationScore, attempt.RecognizerConfidence, attempt.Success, attempt.PhonemeErrors)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreWrite)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

var _ Store = (*PostgresStore)(nil)
