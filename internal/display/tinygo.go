package display

import (
	"image"
	"image/color"

	pdisplay "periph.io/x/conn/v3/display"
	"tinygo.org/x/drivers"
)

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

// FromDisplayer lets a Screen draw on any tinygo display driver. Pixels are
// thresholded to on/off.
func FromDisplayer(dev drivers.Displayer) pdisplay.Drawer {
	return &displayerDrawer{dev: dev}
}

type displayerDrawer struct {
	dev drivers.Displayer
}

func (d *displayerDrawer) String() string { return "tinygo displayer" }

func (d *displayerDrawer) Halt() error { return nil }

func (d *displayerDrawer) ColorModel() color.Model { return color.GrayModel }

func (d *displayerDrawer) Bounds() image.Rectangle {
	w, h := d.dev.Size()
	return image.Rect(0, 0, int(w), int(h))
}

// Draw copies src onto the display and flushes it.
func (d *displayerDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := image.Pt(x-r.Min.X+sp.X, y-r.Min.Y+sp.Y)
			c := black
			if color.GrayModel.Convert(src.At(p.X, p.Y)).(color.Gray).Y >= 0x80 {
				c = white
			}
			d.dev.SetPixel(int16(x), int16(y), c)
		}
	}
	return d.dev.Display()
}
