package deepgram

import (
	"testing"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/frames"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
)

func TestNewSTTDefaults(t *testing.T) {
	s := NewSTT(STTConfig{APIKey: "key"})
	if s.cfg.Model != "nova-2" || s.cfg.Language != "en-US" {
		t.Fatalf("model defaults not applied: %+v", s.cfg)
	}
	if s.cfg.SampleRate != 16000 || s.cfg.Encoding != "linear16" {
		t.Fatalf("audio defaults not applied: %+v", s.cfg)
	}
}

func TestCloseBeforeStartReleasesResults(t *testing.T) {
	s := NewSTT(STTConfig{APIKey: "key", StreamID: "st1"})
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case _, ok := <-s.Results():
		if ok {
			t.Fatalf("expected closed results channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("results channel not closed")
	}
	// A second close must not panic on the already-closed channel.
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestCallbackDropsMessageAfterClose(t *testing.T) {
	s := NewSTT(STTConfig{APIKey: "key", StreamID: "st1"})
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	cb := &callback{parent: s}
	mr := &msginterfaces.MessageResponse{
		IsFinal: true,
		Channel: msginterfaces.Channel{
			Alternatives: []msginterfaces.Alternative{{Transcript: "cat", Confidence: 0.9}},
		},
	}
	if err := cb.Message(mr); err != nil {
		t.Fatalf("message after close: %v", err)
	}
}

func TestSendAudioBeforeStartFails(t *testing.T) {
	s := NewSTT(STTConfig{APIKey: "key"})
	f := frames.NewAudioFrame("st1", time.Now().UnixNano(), []byte{0, 0}, 16000, 1, nil)
	if err := s.SendAudio(f); err == nil {
		t.Fatalf("expected error before Start")
	}
}
