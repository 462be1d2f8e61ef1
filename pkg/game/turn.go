package game

// TurnState is the single owner of turn-taking: exactly one state holds at
// any instant, so illegal flag combinations are unrepresentable.
type TurnState int

const (
	// TurnIdle means neither side owns the turn (pre-start, or between
	// the bot finishing speech and the orchestrator re-opening listening).
	TurnIdle TurnState = iota
	// TurnSpeaking means synthesized speech is playing; the microphone is
	// gated shut.
	TurnSpeaking
	// TurnBusy means the bot is scoring or generating feedback; no audio
	// flows in either direction.
	TurnBusy
	// TurnWaiting means the microphone is open and a final transcript may
	// trigger scoring.
	TurnWaiting
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "IDLE"
	case TurnSpeaking:
		return "SPEAKING"
	case TurnBusy:
		return "BUSY"
	case TurnWaiting:
		return "WAITING"
	default:
		return "UNKNOWN"
	}
}

var validTurnTransitions = map[TurnState][]TurnState{
	TurnIdle:     {TurnSpeaking, TurnWaiting},
	TurnSpeaking: {TurnIdle, TurnWaiting},
	TurnBusy:     {TurnSpeaking, TurnWaiting, TurnIdle},
	TurnWaiting:  {TurnBusy, TurnIdle},
}

func turnTransitionValid(from, to TurnState) bool {
	for _, allowed := range validTurnTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a turn transition that the state machine
// rejects.
type InvalidTransitionError struct {
	From TurnState
	To   TurnState
}

func (e *InvalidTransitionError) Error() string {
	return "invalid turn transition from " + e.From.String() + " to " + e.To.String()
}
