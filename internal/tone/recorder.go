package tone

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	recorderBitDepth = 16
	wavFormatPCM     = 1
)

// Recorder writes the gated tone to a mono 16-bit WAV file. Samples are
// produced by Advance, so the recording follows emulated time.
type Recorder struct {
	path    string
	file    *os.File
	enc     *wav.Encoder
	format  *audio.Format
	osc     oscillator
	playing bool
	carry   time.Duration // sub-sample remainder, scaled by SampleRate
	samples int
}

func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %q: %w", path, err)
	}

	return &Recorder{
		path:   path,
		file:   f,
		enc:    wav.NewEncoder(f, SampleRate, recorderBitDepth, 1, wavFormatPCM),
		format: &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		osc:    newOscillator(Frequency, SampleRate),
	}, nil
}

func (r *Recorder) Play()  { r.playing = true }
func (r *Recorder) Pause() { r.playing = false }

// Advance appends the samples covering elapsed.
func (r *Recorder) Advance(elapsed time.Duration) error {
	r.carry += elapsed * SampleRate
	n := int(r.carry / time.Second)
	r.carry %= time.Second
	if n == 0 {
		return nil
	}

	const peak = math.MaxInt16
	data := make([]int, n)
	if r.playing {
		for i := range data {
			data[i] = int(r.osc.next() * peak)
		}
	}

	buf := &audio.IntBuffer{
		Format:         r.format,
		Data:           data,
		SourceBitDepth: recorderBitDepth,
	}
	if err := r.enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples to %q: %w", r.path, err)
	}

	r.samples += n
	return nil
}

// Samples returns the number of samples written so far.
func (r *Recorder) Samples() int {
	return r.samples
}

func (r *Recorder) Close() error {
	slog.Info("tone: writing recording", "path", r.path, "samples", r.samples)

	if err := r.enc.Close(); err != nil {
		_ = r.file.Close()
		return fmt.Errorf("failed to finish %q: %w", r.path, err)
	}

	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", r.path, err)
	}

	return nil
}
