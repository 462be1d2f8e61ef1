package game

// WordItem is one target word in a session's practice list. Immutable once
// the list is built.
type WordItem struct {
	Word       string `json:"word"`
	Difficulty string `json:"difficulty"`
	Phonetic   string `json:"phonetic"`
	Hint       string `json:"hint"`
}

// Attempt captures one scored pronunciation event.
type Attempt struct {
	TargetWord           string   `json:"targetWord"`
	ChildSaid            string   `json:"childSaid"`
	PronunciationScore   int      `json:"pronunciationScore"`
	AttemptNumber        int      `json:"attemptNumber"`
	MaxAttempts          int      `json:"maxAttempts"`
	PhonemeErrors        []string `json:"phonemeErrors"`
	RecognizerConfidence float64  `json:"recognizerConfidence"`
	Success              bool     `json:"success"`
}

// Snapshot is the wire representation of a session, sent to the client after
// every state mutation.
type Snapshot struct {
	BotIsSpeaking           bool       `json:"botIsSpeaking"`
	BotIsBusy               bool       `json:"botIsBusy"`
	WaitingForChildResponse bool       `json:"waitingForChildResponse"`
	STTReady                bool       `json:"sttReady"`
	CurrentWord             string     `json:"currentWord"`
	WordList                []WordItem `json:"wordList"`
	CurrentWordIndex        int        `json:"currentWordIndex"`
	AttemptCount            int        `json:"attemptCount"`
	TotalScore              int        `json:"totalScore"`
	WordsCompleted          int        `json:"wordsCompleted"`
	SessionID               string     `json:"sessionId"`
}

// Progress reports how far through the word list a session is.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Outcome is the state machine's verdict on a recorded attempt.
type Outcome struct {
	Advance bool
	Points  int
}
