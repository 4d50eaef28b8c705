package vm

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	width, height int
	pixels        []bool
	clears        int
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{width: 64, height: 32, pixels: make([]bool, 64*32)}
}

func (d *fakeDisplay) Pixel(x, y int) bool        { return d.pixels[y*d.width+x] }
func (d *fakeDisplay) SetPixel(x, y int, on bool) { d.pixels[y*d.width+x] = on }
func (d *fakeDisplay) Dimensions() (int, int)     { return d.width, d.height }

func (d *fakeDisplay) Clear() {
	d.clears++
	for i := range d.pixels {
		d.pixels[i] = false
	}
}

func (d *fakeDisplay) lit() int {
	n := 0
	for _, p := range d.pixels {
		if p {
			n++
		}
	}
	return n
}

type fakeKeypad struct {
	keys [KeyCount]bool
}

func (k *fakeKeypad) IsPressed(key Key) bool {
	return int(key) < KeyCount && k.keys[key]
}

func (k *fakeKeypad) FirstPressed() (Key, bool) {
	for i, down := range k.keys {
		if down {
			return Key(i), true
		}
	}
	return 0, false
}

// assemble encodes instruction words as a big-endian program image.
func assemble(words ...uint16) []byte {
	bs := make([]byte, 0, 2*len(words))
	for _, w := range words {
		bs = append(bs, byte(w>>8), byte(w))
	}
	return bs
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestVM(t *testing.T, words ...uint16) *VM {
	t.Helper()
	vm, err := New(assemble(words...),
		WithLogger(quietLogger()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	require.NoError(t, err)
	return vm
}

// run executes n cycles and fails the test on the first error.
func run(t *testing.T, vm *VM, d Display, k Keypad, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, vm.Cycle(d, k), "cycle %d", i)
	}
}
