// Package display implements the 64x32 monochrome pixel plane drawn on by the
// interpreter.
package display

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	Width  = 64
	Height = 32
)

// Framebuffer is a Width x Height grid of pixels. Coordinates passed to
// Pixel and SetPixel are interpreter coordinates; the backing rows are kept
// bottom-up, so row 0 of Plane is the bottom line of the picture.
type Framebuffer struct {
	pixels [Width * Height]bool
	dirty  bool
}

func New() *Framebuffer {
	return &Framebuffer{dirty: true}
}

func offset(x, y int) int {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		panic(fmt.Sprintf("pixel coordinate out of range: (%d, %d)", x, y))
	}
	return (Height-1-y)*Width + x
}

func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb.pixels[offset(x, y)]
}

func (fb *Framebuffer) SetPixel(x, y int, on bool) {
	i := offset(x, y)
	if fb.pixels[i] != on {
		fb.pixels[i] = on
		fb.dirty = true
	}
}

func (fb *Framebuffer) Clear() {
	fb.pixels = [Width * Height]bool{}
	fb.dirty = true
}

func (fb *Framebuffer) Dimensions() (width, height int) {
	return Width, Height
}

// Dirty reports whether the picture changed since the last ClearDirty.
func (fb *Framebuffer) Dirty() bool {
	return fb.dirty
}

func (fb *Framebuffer) ClearDirty() {
	fb.dirty = false
}

// Plane returns a copy of the backing pixels, bottom row first.
func (fb *Framebuffer) Plane() []bool {
	plane := make([]bool, len(fb.pixels))
	copy(plane, fb.pixels[:])
	return plane
}

// Digest returns the hex sha1 of the picture, used to compare frames.
func (fb *Framebuffer) Digest() string {
	var buf [Width * Height / 8]byte
	for i, on := range fb.pixels {
		if on {
			buf[i/8] |= 0x80 >> (i % 8)
		}
	}
	sum := sha1.Sum(buf[:])
	return hex.EncodeToString(sum[:])
}

// Snapshot writes the picture as text, top line first, one character per
// pixel.
func (fb *Framebuffer) Snapshot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			ch := '.'
			if fb.Pixel(x, y) {
				ch = '#'
			}
			if _, err := bw.WriteRune(ch); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
