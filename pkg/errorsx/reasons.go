package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonSTTConnect ReasonCode = "stt_connect"
	ReasonSTTSend    ReasonCode = "stt_send"

	ReasonTTSSynthesize ReasonCode = "tts_synthesize"
	ReasonTTSRateLimit  ReasonCode = "tts_rate_limit"

	ReasonWordListGenerate ReasonCode = "wordlist_generate"
	ReasonFeedbackGenerate ReasonCode = "feedback_generate"

	ReasonStoreConnect ReasonCode = "store_connect"
	ReasonStoreWrite   ReasonCode = "store_write"

	ReasonSessionEmptyWordList ReasonCode = "session_empty_word_list"
	ReasonSessionTurnState     ReasonCode = "session_turn_state"

	ReasonTransportSend     ReasonCode = "transport_send"
	ReasonTransportEnvelope ReasonCode = "transport_envelope"
)
