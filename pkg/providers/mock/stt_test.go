package mock

import (
	"context"
	"testing"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/frames"
)

func audioFrame() frames.AudioFrame {
	return frames.NewAudioFrame("st1", time.Now().UnixNano(), []byte{0, 0}, 16000, 1, nil)
}

func TestScriptedTranscriptAfterFirstAudio(t *testing.T) {
	s := NewSTT(STTConfig{StreamID: "st1", Transcript: "cat", Confidence: 0.9})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.SendAudio(audioFrame()); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case f := <-s.Results():
		tf, ok := f.(frames.TextFrame)
		if !ok || tf.Text() != "cat" {
			t.Fatalf("unexpected frame: %+v", f)
		}
		if tf.Meta()[frames.MetaIsFinal] != "true" {
			t.Fatalf("expected final transcript")
		}
	case <-time.After(time.Second):
		t.Fatalf("no transcript emitted")
	}

	// The script fires once; further audio is accepted silently.
	if err := s.SendAudio(audioFrame()); err != nil {
		t.Fatalf("second send: %v", err)
	}
}

func TestSendAudioAfterCloseFailsFast(t *testing.T) {
	s := NewSTT(STTConfig{StreamID: "st1"})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Must return promptly with an error, never block or panic on the
	// closed results channel.
	done := make(chan error, 1)
	go func() { done <- s.SendAudio(audioFrame()) }()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected error after close")
		}
	case <-time.After(time.Second):
		t.Fatalf("SendAudio blocked after close")
	}

	if _, ok := <-s.Results(); ok {
		t.Fatalf("results channel must be closed")
	}
	// Double close is a no-op.
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
