// Package transports defines the vendor-agnostic client I/O boundary. All
// traffic is JSON envelopes of the form {"event": ..., "data": ...}.
package transports

import (
	"context"
	"encoding/json"
)

// Event names on the wire.
const (
	EventStartGame  = "start_game"
	EventAudioChunk = "audio_chunk"
	EventAudioEnd   = "audio_end"
	EventGameState  = "game_state"
	EventTranscript = "transcript"
	EventFeedback   = "feedback"
	EventError      = "error"
)

// Envelope is one wire message. Data stays raw until the event name picks
// the payload type.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// StartGameData opens a new game session.
type StartGameData struct {
	ChildName string   `json:"childName"`
	Interests []string `json:"interests"`
}

// TranscriptData relays recognizer output to the client.
type TranscriptData struct {
	Text       string  `json:"text"`
	IsFinal    bool    `json:"isFinal"`
	Confidence float64 `json:"confidence"`
}

// FeedbackData carries the tutor's spoken response in text form.
type FeedbackData struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
}

// ErrorData reports a recoverable server-side failure.
type ErrorData struct {
	Message string `json:"message"`
}

// Conn is one live client connection.
type Conn interface {
	// ID uniquely identifies the connection for its lifetime.
	ID() string
	// SendEvent marshals data into an envelope and queues it for delivery.
	// Delivery is best effort: a slow client drops messages rather than
	// blocking the caller.
	SendEvent(event string, data any) error
	Close() error
}

// Handler receives connection lifecycle callbacks and inbound envelopes.
type Handler interface {
	OnConnect(conn Conn)
	OnMessage(conn Conn, env Envelope)
	OnDisconnect(conn Conn)
}

// Transport accepts client connections and dispatches them to a Handler.
type Transport interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

// AudioChunkData shapes an outbound PCM frame as the wire expects: a bare
// JSON array of byte values.
func AudioChunkData(frame []byte) []int {
	out := make([]int, len(frame))
	for i, b := range frame {
		out[i] = int(b)
	}
	return out
}

// DecodeAudioSamples parses an inbound audio_chunk payload: a bare JSON
// array of 16-bit samples.
func DecodeAudioSamples(data json.RawMessage) ([]int16, error) {
	var samples []int16
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}
