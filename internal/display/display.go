// Package display renders the status surface: a few lines of text on a
// small monochrome panel.
package display

import (
	"fmt"
	"image"
	"log"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	pdisplay "periph.io/x/conn/v3/display"
)

// Surface shows lines of text, replacing whatever was shown before.
type Surface interface {
	Show(lines ...string) error
}

// rowTop is the top pixel row of each text line. The gap before the third
// row keeps the storage status visually apart from the event.
var rowTop = []int{0, 16, 40}

const rowSpacing = 16

// Screen renders text onto a pixel display.
type Screen struct {
	dev  pdisplay.Drawer
	face font.Face
	img  *image.Gray
}

// NewScreen creates a Screen drawing with a 7x13 bitmap font.
func NewScreen(dev pdisplay.Drawer) *Screen {
	return &Screen{
		dev:  dev,
		face: basicfont.Face7x13,
		img:  image.NewGray(dev.Bounds()),
	}
}

// Show clears the display, draws each line on its own row and pushes the
// frame to the device. Lines that do not fit are clipped.
func (s *Screen) Show(lines ...string) error {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}

	d := font.Drawer{
		Dst:  s.img,
		Src:  image.White,
		Face: s.face,
	}
	ascent := s.face.Metrics().Ascent
	for i, line := range lines {
		d.Dot = fixed.Point26_6{X: 0, Y: fixed.I(lineTop(i)) + ascent}
		d.DrawString(line)
	}

	if err := s.dev.Draw(s.img.Bounds(), s.img, s.img.Bounds().Min); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func lineTop(i int) int {
	if i < len(rowTop) {
		return rowTop[i]
	}
	return rowTop[len(rowTop)-1] + rowSpacing*(i-len(rowTop)+1)
}

// LogSurface writes screens to the process log. Used when no panel is fitted.
type LogSurface struct{}

// Show logs the lines joined with " | ".
func (LogSurface) Show(lines ...string) error {
	log.Printf("display: %s", strings.Join(lines, " | "))
	return nil
}
