//go:build !headless

package hal

import (
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/kapitanov/chip8emu/internal/chip8"
	"github.com/kapitanov/chip8emu/internal/display"
	"github.com/kapitanov/chip8emu/internal/vm"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	frameDuration = time.Second / 60
)

type HAL struct {
	window          *sdl.Window
	renderer        *sdl.Renderer
	texture         *sdl.Texture
	backBuffer      []uint32
	backBufferPitch int
	lastFrame       time.Time
}

func New(title string) (*HAL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to init sdl: %w", err)
	}

	// Resources created so far, released on failure.
	var cleanup []func() error
	fail := func(err error) (*HAL, error) {
		for _, cerr := range releaseAll(cleanup) {
			slog.Error("failed to release sdl resource", "err", cerr)
		}
		sdl.Quit()
		return nil, err
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, WindowWidth, WindowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		return fail(fmt.Errorf("failed to create sdl window: %w", err))
	}
	cleanup = append(cleanup, window.Destroy)
	slog.Debug("hal: create window")

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fail(fmt.Errorf("failed to create sdl renderer: %w", err))
	}
	cleanup = append(cleanup, renderer.Destroy)

	err = renderer.SetLogicalSize(WindowWidth, WindowHeight)
	if err != nil {
		return fail(fmt.Errorf("failed to resize sdl renderer: %w", err))
	}
	slog.Debug("hal: create renderer")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, display.Width, display.Height)
	if err != nil {
		return fail(fmt.Errorf("failed to create sdl texture: %w", err))
	}
	slog.Debug("hal: create texture")

	return &HAL{
		window:          window,
		renderer:        renderer,
		texture:         texture,
		backBuffer:      make([]uint32, display.Width*display.Height),
		backBufferPitch: display.Width * int(unsafe.Sizeof(uint32(0))),
		lastFrame:       time.Now(),
	}, nil
}

// releaseAll calls the release functions newest first and returns their
// errors.
func releaseAll(fns []func() error) []error {
	var errs []error
	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (hal *HAL) Shutdown() {
	if err := hal.texture.Destroy(); err != nil {
		slog.Error("failed to destroy sdl texture", "err", err)
	}

	if err := hal.renderer.Destroy(); err != nil {
		slog.Error("failed to destroy sdl renderer", "err", err)
	}

	if err := hal.window.Destroy(); err != nil {
		slog.Error("failed to destroy sdl window", "err", err)
	}

	sdl.Quit()
}

func (hal *HAL) ReadInput(keyDown func(vm.Key), keyUp func(vm.Key)) error {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e.GetType() {
		case sdl.QUIT:
			slog.Debug("hal: exit requested")
			return chip8.ErrQuit
		case sdl.KEYDOWN:
			err := hal.processKeyDown(e.(*sdl.KeyboardEvent), keyDown)
			if err != nil {
				return err
			}

		case sdl.KEYUP:
			hal.processKeyUp(e.(*sdl.KeyboardEvent), keyUp)
		}
	}

	return nil
}

func (hal *HAL) processKeyDown(e *sdl.KeyboardEvent, callback func(vm.Key)) error {
	switch e.Keysym.Scancode {
	case sdl.SCANCODE_BACKSPACE:
		slog.Debug("hal: reboot requested")
		return chip8.ErrReboot
	case sdl.SCANCODE_ESCAPE:
		return chip8.ErrQuit
	}

	if e.Repeat != 0 {
		return nil
	}

	key, ok := KeyMap(e.Keysym.Scancode)
	if ok {
		callback(key)
	}

	return nil
}

func (hal *HAL) processKeyUp(e *sdl.KeyboardEvent, callback func(vm.Key)) {
	key, ok := KeyMap(e.Keysym.Scancode)
	if ok {
		callback(key)
	}
}

func (hal *HAL) Draw(screen *display.Framebuffer) error {
	const (
		bgColor = uint32(0x000000)
		fgColor = uint32(0xbea700)
	)

	// Texture rows run top-down; the framebuffer flips rows in Pixel.
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			i := x + y*display.Width

			color := bgColor
			if screen.Pixel(x, y) {
				color = fgColor
			}

			hal.backBuffer[i] = color
		}
	}

	backBufferPtr := unsafe.Pointer(&hal.backBuffer[0])
	if err := hal.texture.Update(nil, backBufferPtr, hal.backBufferPitch); err != nil {
		return fmt.Errorf("failed to update sdl texture: %w", err)
	}

	if err := hal.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear sdl renderer: %w", err)
	}

	if err := hal.renderer.Copy(hal.texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy sdl texture to renderer: %w", err)
	}

	hal.renderer.Present()
	return nil
}

// WaitForNextFrame sleeps out the rest of the current 60 Hz frame.
func (hal *HAL) WaitForNextFrame() error {
	if d := frameDuration - time.Since(hal.lastFrame); d > 0 {
		time.Sleep(d)
	}
	hal.lastFrame = time.Now()
	return nil
}
