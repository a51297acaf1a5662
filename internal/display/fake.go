package display

import (
	"image/color"
)

// FakeDisplayer is an in-memory tinygo drivers.Displayer for tests. Wrap it
// with FromDisplayer to draw a Screen on it.
type FakeDisplayer struct {
	W, H int16

	pixels []bool

	// Frames counts Display calls.
	Frames int
	// DisplayError, if set, is returned by Display.
	DisplayError error
}

// NewFakeDisplayer creates a blank w x h display.
func NewFakeDisplayer(w, h int16) *FakeDisplayer {
	return &FakeDisplayer{W: w, H: h, pixels: make([]bool, int(w)*int(h))}
}

func (f *FakeDisplayer) Size() (int16, int16) { return f.W, f.H }

func (f *FakeDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return
	}
	f.pixels[int(y)*int(f.W)+int(x)] = c.R != 0 || c.G != 0 || c.B != 0
}

func (f *FakeDisplayer) Display() error {
	if f.DisplayError != nil {
		return f.DisplayError
	}
	f.Frames++
	return nil
}

// Lit counts lit pixels in rows [y0, y1).
func (f *FakeDisplayer) Lit(y0, y1 int16) int {
	n := 0
	for y := y0; y < y1 && y < f.H; y++ {
		for x := int16(0); x < f.W; x++ {
			if f.pixels[int(y)*int(f.W)+int(x)] {
				n++
			}
		}
	}
	return n
}

// FakeSurface records every screen shown.
type FakeSurface struct {
	Screens [][]string
	// ShowError, if set, is returned by Show (the screen is still recorded).
	ShowError error
}

// Show records the lines.
func (f *FakeSurface) Show(lines ...string) error {
	f.Screens = append(f.Screens, append([]string(nil), lines...))
	return f.ShowError
}

// Last returns the most recent screen, or nil.
func (f *FakeSurface) Last() []string {
	if len(f.Screens) == 0 {
		return nil
	}
	return f.Screens[len(f.Screens)-1]
}
