package audio

import "github.com/wordwhiz/wordwhiz/pkg/frames"

// Gate drops inbound microphone frames whenever the bot is speaking. This is
// the barge-in protection contract: frames captured during synthesized
// playback are discarded, never buffered, so the recognizer can never score
// the bot's own voice.
type Gate struct {
	speaking func() bool
	forward  func(frames.AudioFrame) error
}

func NewGate(speaking func() bool, forward func(frames.AudioFrame) error) *Gate {
	return &Gate{speaking: speaking, forward: forward}
}

// Submit forwards the frame to the recognizer unless the bot is speaking.
// It reports whether the frame was forwarded.
func (g *Gate) Submit(f frames.AudioFrame) (bool, error) {
	if g.speaking != nil && g.speaking() {
		return false, nil
	}
	if g.forward == nil {
		return false, nil
	}
	if err := g.forward(f); err != nil {
		return false, err
	}
	return true, nil
}
