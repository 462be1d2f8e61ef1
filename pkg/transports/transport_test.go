package transports

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload, _ := json.Marshal(StartGameData{ChildName: "Mia", Interests: []string{"animals"}})
	env := Envelope{Event: EventStartGame, Data: payload}

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Envelope
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event != EventStartGame {
		t.Fatalf("event mismatch: %q", got.Event)
	}
	var data StartGameData
	if err := json.Unmarshal(got.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.ChildName != "Mia" || len(data.Interests) != 1 {
		t.Fatalf("payload mismatch: %+v", data)
	}
}

func TestAudioChunkDataIsBareArray(t *testing.T) {
	b, err := json.Marshal(AudioChunkData([]byte{0, 128, 255}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[0,128,255]" {
		t.Fatalf("audio_chunk payload must be a bare array of byte values, got %s", b)
	}
}

func TestDecodeAudioSamples(t *testing.T) {
	samples, err := DecodeAudioSamples(json.RawMessage(`[0,100,-32768,32767]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []int16{0, 100, -32768, 32767}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], samples[i])
		}
	}
}

func TestDecodeAudioSamplesRejectsObject(t *testing.T) {
	if _, err := DecodeAudioSamples(json.RawMessage(`{"samples":[1,2]}`)); err == nil {
		t.Fatalf("expected error for non-array payload")
	}
}
