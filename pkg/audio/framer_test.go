package audio

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSplitThousandBytes(t *testing.T) {
	pcm := make([]byte, 1000)
	frames := NewFramer().Split(pcm)
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	want := []int{320, 320, 320, 40}
	for i, f := range frames {
		if len(f) != want[i] {
			t.Fatalf("frame %d: expected %d bytes, got %d", i, want[i], len(f))
		}
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	pcm := make([]byte, 700)
	for i := range pcm {
		pcm[i] = byte(i % 251)
	}
	var joined []byte
	for _, f := range NewFramer().Split(pcm) {
		joined = append(joined, f...)
	}
	if !bytes.Equal(joined, pcm) {
		t.Fatalf("reassembled frames differ from input")
	}
}

func TestSplitEmpty(t *testing.T) {
	if frames := NewFramer().Split(nil); len(frames) != 0 {
		t.Fatalf("expected no frames for empty buffer, got %d", len(frames))
	}
}

func TestStreamEmitsAllFramesInOrder(t *testing.T) {
	f := Framer{FrameSize: 320, Delay: time.Microsecond}
	pcm := make([]byte, 1000)
	var sizes []int
	err := f.Stream(context.Background(), pcm, func(chunk []byte) error {
		sizes = append(sizes, len(chunk))
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	want := []int{320, 320, 320, 40}
	if len(sizes) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(sizes))
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("frame %d: expected %d, got %d", i, want[i], sizes[i])
		}
	}
}

func TestStreamStopsOnCancel(t *testing.T) {
	f := Framer{FrameSize: 320, Delay: 50 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	emitted := 0
	err := f.Stream(ctx, make([]byte, 3200), func(chunk []byte) error {
		emitted++
		cancel()
		return nil
	})
	if err == nil {
		t.Fatalf("expected context error after cancel")
	}
	if emitted != 1 {
		t.Fatalf("expected stream to stop after cancellation, emitted %d frames", emitted)
	}
}
