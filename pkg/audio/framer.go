// Package audio paces outbound synthesized speech and gates inbound
// microphone audio so the tutor never talks over itself.
package audio

import (
	"context"
	"time"
)

const (
	// SampleRate is the PCM sample rate used on both legs of the pipeline.
	SampleRate = 16000
	// Channels is mono on both legs.
	Channels = 1
	// FrameSize is 20 ms of 16 kHz mono 16-bit PCM.
	FrameSize = 320
	// PacingDelay smooths playback on the receiving side.
	PacingDelay = 15 * time.Millisecond
)

// Framer slices a synthesized PCM buffer into fixed-size frames and emits
// them in order with a small pacing delay between frames.
type Framer struct {
	FrameSize int
	Delay     time.Duration
}

func NewFramer() Framer {
	return Framer{FrameSize: FrameSize, Delay: PacingDelay}
}

// Split cuts pcm into FrameSize chunks; the final chunk carries the
// remainder. A 1000-byte buffer yields frames of 320, 320, 320 and 40 bytes.
func (f Framer) Split(pcm []byte) [][]byte {
	size := f.FrameSize
	if size <= 0 {
		size = FrameSize
	}
	var out [][]byte
	for i := 0; i < len(pcm); i += size {
		end := i + size
		if end > len(pcm) {
			end = len(pcm)
		}
		out = append(out, pcm[i:end])
	}
	return out
}

// Stream emits each frame through emit, pausing Delay between frames. The
// pause is a scheduling yield, not a hard sleep: cancellation of ctx stops
// the stream between frames. Emitting the end-of-stream marker is the
// caller's responsibility, after Stream returns nil.
func (f Framer) Stream(ctx context.Context, pcm []byte, emit func(chunk []byte) error) error {
	delay := f.Delay
	if delay <= 0 {
		delay = PacingDelay
	}
	for _, chunk := range f.Split(pcm) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(chunk); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}
