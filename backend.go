package main

import (
	"fmt"
	"log/slog"

	"github.com/kapitanov/chip8emu/internal/chip8"
	"github.com/kapitanov/chip8emu/internal/hal"
	"github.com/kapitanov/chip8emu/internal/headless"
	"github.com/kapitanov/chip8emu/internal/terminal"
	"github.com/kapitanov/chip8emu/internal/tone"
)

const (
	backendSDL      = "sdl"
	backendTerminal = "terminal"
	backendHeadless = "headless"
)

func newHost(opts *options, title string) (chip8.Host, func(), error) {
	switch opts.backend {
	case backendSDL:
		h, err := hal.New(title)
		if err != nil {
			return nil, nil, err
		}
		return h, h.Shutdown, nil

	case backendTerminal:
		t, err := terminal.New()
		if err != nil {
			return nil, nil, err
		}
		return t, t.Shutdown, nil

	case backendHeadless:
		if opts.frames <= 0 {
			return nil, nil, fmt.Errorf("frames must be positive, got %d", opts.frames)
		}
		return headless.New(opts.frames, opts.snapshot), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", opts.backend)
	}
}

func newTone(opts *options) (tone.Tone, error) {
	switch {
	case opts.mute:
		return tone.Silent{}, nil

	case opts.recordTone != "":
		r, err := tone.NewRecorder(opts.recordTone)
		if err != nil {
			return nil, fmt.Errorf("unable to record tone: %w", err)
		}
		return r, nil

	case opts.backend == backendHeadless:
		return tone.Silent{}, nil
	}

	b, err := tone.NewBeeper()
	if err != nil {
		slog.Warn("audio unavailable, running silent", "err", err)
		return tone.Silent{}, nil
	}
	return b, nil
}
