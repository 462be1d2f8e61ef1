package frames

// Well-known metadata keys carried on frames between the transport,
// recognizer, synthesizer and session layers.
const (
	MetaStreamID   = "stream_id"
	MetaSessionID  = "session_id"
	MetaTraceID    = "trace_id"
	MetaSource     = "source"
	MetaReason     = "reason"
	MetaIsFinal    = "is_final"
	MetaConfidence = "confidence"
	MetaEncoding   = "encoding"
)
