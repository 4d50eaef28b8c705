//go:build !headless

package tone

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Beeper plays the tone on the default audio device. The player runs for the
// Beeper's lifetime; Play and Pause only open and close the gate.
type Beeper struct {
	ctx    *oto.Context
	player *oto.Player
	stream *squareStream
}

func NewBeeper() (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready
	slog.Debug("tone: audio context ready", "rate", SampleRate)

	stream := &squareStream{osc: newOscillator(Frequency, SampleRate)}
	player := ctx.NewPlayer(stream)
	player.Play()

	return &Beeper{
		ctx:    ctx,
		player: player,
		stream: stream,
	}, nil
}

func (b *Beeper) Play() {
	b.stream.gate.Store(true)
}

func (b *Beeper) Pause() {
	b.stream.gate.Store(false)
}

func (b *Beeper) Close() error {
	b.Pause()
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("failed to close audio player: %w", err)
	}
	return nil
}
