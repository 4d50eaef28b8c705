package tone

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// squareStream is read by the oto player goroutine; the oscillator is only
// touched from there.
type squareStream struct {
	gate atomic.Bool
	osc  oscillator
}

func (s *squareStream) Read(p []byte) (int, error) {
	const sampleBytes = 4

	n := len(p) / sampleBytes
	open := s.gate.Load()

	for i := 0; i < n; i++ {
		var v float32
		if open {
			v = float32(s.osc.next())
		}
		binary.LittleEndian.PutUint32(p[i*sampleBytes:], math.Float32bits(v))
	}

	return n * sampleBytes, nil
}
