// Package tone provides the fixed-frequency beeper gated by the sound timer.
package tone

import "time"

const (
	SampleRate = 44100
	Frequency  = 440

	amplitude = 0.25
)

// Tone is started and stopped as the sound timer becomes non-zero and zero.
type Tone interface {
	Play()
	Pause()
	Close() error
}

// Clocked is implemented by tones that produce samples on the emulated clock
// instead of a device clock.
type Clocked interface {
	Advance(elapsed time.Duration) error
}

// Silent discards the tone.
type Silent struct{}

func (Silent) Play()        {}
func (Silent) Pause()       {}
func (Silent) Close() error { return nil }

// oscillator generates a square wave one sample at a time.
type oscillator struct {
	phase float64
	step  float64
}

func newOscillator(frequency, sampleRate float64) oscillator {
	return oscillator{step: frequency / sampleRate}
}

func (o *oscillator) next() float64 {
	v := amplitude
	if o.phase >= 0.5 {
		v = -amplitude
	}

	o.phase += o.step
	if o.phase >= 1 {
		o.phase--
	}

	return v
}
