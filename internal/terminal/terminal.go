// Package terminal runs the interpreter inside a text terminal using tcell.
package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/kapitanov/chip8emu/internal/chip8"
	"github.com/kapitanov/chip8emu/internal/display"
	"github.com/kapitanov/chip8emu/internal/vm"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("stdout is not a terminal")

const (
	frameDuration = time.Second / 60

	// Terminals report no key-up, so a key counts as held until no event
	// for it arrived for keyTimeout. Slightly longer than the usual
	// auto-repeat interval.
	keyTimeout = 100 * time.Millisecond
)

// Terminal is a chip8.Host drawing two pixel rows per text row.
type Terminal struct {
	screen tcell.Screen
	now    func() time.Time

	lastSeen [vm.KeyCount]time.Time // Last event for each key
	held     [vm.KeyCount]bool      // Keys reported down to the machine

	lastFrame time.Time
}

// New opens the controlling terminal.
func New() (*Terminal, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, ErrNotTerminal
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}

	return NewWithScreen(screen)
}

// NewWithScreen wraps an uninitialised screen, e.g. a simulation screen.
func NewWithScreen(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.HideCursor()
	screen.Clear()

	w, h := screen.Size()
	if w < display.Width || h < display.Height/2 {
		slog.Warn("terminal is smaller than the picture", "cols", w, "rows", h,
			"want_cols", display.Width, "want_rows", display.Height/2)
	}

	return &Terminal{
		screen:    screen,
		now:       time.Now,
		lastFrame: time.Now(),
	}, nil
}

func (t *Terminal) Shutdown() {
	t.screen.Fini()
}

func (t *Terminal) ReadInput(keyDown func(vm.Key), keyUp func(vm.Key)) error {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if err := t.processKeyEvent(ev, now); err != nil {
				return err
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	for i := range t.lastSeen {
		key := vm.Key(i)
		active := !t.lastSeen[i].IsZero() && now.Sub(t.lastSeen[i]) < keyTimeout

		switch {
		case active && !t.held[i]:
			keyDown(key)
		case !active && t.held[i]:
			keyUp(key)
		}
		t.held[i] = active
	}

	return nil
}

func (t *Terminal) processKeyEvent(ev *tcell.EventKey, now time.Time) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		slog.Debug("terminal: exit requested")
		return chip8.ErrQuit
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		slog.Debug("terminal: reboot requested")
		return chip8.ErrReboot
	case tcell.KeyRune:
		if key, ok := KeyMap(ev.Rune()); ok {
			t.lastSeen[key] = now
		}
	}
	return nil
}

// Draw renders the framebuffer at the top-left corner, two pixel rows per cell.
func (t *Terminal) Draw(screen *display.Framebuffer) error {
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewHexColor(0xbea700))

	for row := 0; row < display.Height/2; row++ {
		for x := 0; x < display.Width; x++ {
			top := screen.Pixel(x, 2*row)
			bottom := screen.Pixel(x, 2*row+1)
			t.screen.SetContent(x, row, halfBlock(top, bottom), nil, style)
		}
	}

	t.screen.Show()
	return nil
}

func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

func (t *Terminal) WaitForNextFrame() error {
	if d := frameDuration - time.Since(t.lastFrame); d > 0 {
		time.Sleep(d)
	}
	t.lastFrame = time.Now()
	return nil
}

// KeyMap translates a typed character to a keypad key, using the same
// 1234/QWER/ASDF/ZXCV layout as the window host.
func KeyMap(r rune) (vm.Key, bool) {
	key, ok := runeMapping[unicode.ToLower(r)]
	return key, ok
}

var runeMapping = map[rune]vm.Key{
	'1': vm.Key1, '2': vm.Key2, '3': vm.Key3, '4': vm.KeyC,
	'q': vm.Key4, 'w': vm.Key5, 'e': vm.Key6, 'r': vm.KeyD,
	'a': vm.Key7, 's': vm.Key8, 'd': vm.Key9, 'f': vm.KeyE,
	'z': vm.KeyA, 'x': vm.Key0, 'c': vm.KeyB, 'v': vm.KeyF,
}
