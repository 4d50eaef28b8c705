//go:build headless

package hal

import (
	"errors"

	"github.com/kapitanov/chip8emu/internal/display"
	"github.com/kapitanov/chip8emu/internal/vm"
)

// HAL is unavailable in headless builds.
type HAL struct{}

func New(string) (*HAL, error) {
	return nil, errors.New("sdl window is not available in headless builds")
}

func (*HAL) Shutdown()                                   {}
func (*HAL) ReadInput(func(vm.Key), func(vm.Key)) error { return nil }
func (*HAL) Draw(*display.Framebuffer) error            { return nil }
func (*HAL) WaitForNextFrame() error                    { return nil }
