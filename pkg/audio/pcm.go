package audio

import "encoding/binary"

// Int16FromFloat32 converts floating-point samples to signed 16-bit PCM.
// Samples are clamped to [-1, 1]; negatives scale by 32768 and positives by
// 32767 so both extremes map onto the full int16 range.
func Int16FromFloat32(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s < -1 {
			s = -1
		}
		if s > 1 {
			s = 1
		}
		if s < 0 {
			out[i] = int16(s * 32768)
		} else {
			out[i] = int16(s * 32767)
		}
	}
	return out
}

// BytesFromInt16 encodes samples as little-endian 16-bit PCM.
func BytesFromInt16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// Int16FromBytes decodes little-endian 16-bit PCM. A trailing odd byte is
// dropped.
func Int16FromBytes(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}
