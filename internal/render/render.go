// Package render rasterizes a board snapshot into a PNG plot: finalized and
// pending points as dots, the interpolated curve as a polyline, plus a small
// status line.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/relabs-tech/drawing_board/internal/board"
)

// margin, in workspace units, kept visible around the board edges so points
// on the boundary are not clipped.
const margin = 10

var (
	background = color.RGBA{255, 255, 255, 255}
	finalInk   = color.RGBA{30, 64, 175, 255}  // finalized points
	pendingInk = color.RGBA{107, 114, 128, 255} // buffered points
	curveInk   = color.RGBA{220, 38, 38, 255}  // interpolated curve
	textInk    = color.RGBA{17, 24, 39, 255}
)

// Layout maps workspace units onto image pixels.
type Layout struct {
	Length  int
	Breadth int
	ScaleX  int
	ScaleY  int
}

func (l Layout) size() (w, h int) {
	return (l.Length + 2*margin) * l.ScaleX, (l.Breadth + 2*margin) * l.ScaleY
}

// pixel converts a workspace coordinate to an image position. Image rows grow
// downward, so the breadth axis is flipped.
func (l Layout) pixel(c board.Coordinate) (int, int) {
	_, h := l.size()
	return (c.X + margin) * l.ScaleX, h - 1 - (c.Y+margin)*l.ScaleY
}

// Image draws the snapshot onto a fresh RGBA canvas.
func Image(snap board.Snapshot, l Layout) *image.RGBA {
	w, h := l.size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, background)
		}
	}

	for _, p := range snap.Finalized {
		l.dot(img, p, finalInk)
	}
	for _, p := range snap.Pending {
		l.dot(img, p, pendingInk)
	}
	for i := 1; i < len(snap.Curve); i++ {
		x0, y0 := l.pixel(snap.Curve[i-1])
		x1, y1 := l.pixel(snap.Curve[i])
		line(img, x0, y0, x1, y1, curveInk)
	}

	status := fmt.Sprintf("%s  pts=%d pend=%d curve=%d", snap.Mode,
		len(snap.Finalized), len(snap.Pending), len(snap.Curve))
	drawString(img, 4, 16, status)

	return img
}

// WritePNG encodes the snapshot plot as PNG.
func WritePNG(w io.Writer, snap board.Snapshot, l Layout) error {
	if err := png.Encode(w, Image(snap, l)); err != nil {
		return fmt.Errorf("encode board png: %w", err)
	}
	return nil
}

func (l Layout) dot(img *image.RGBA, c board.Coordinate, ink color.RGBA) {
	px, py := l.pixel(c)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			set(img, px+dx, py+dy, ink)
		}
	}
}

func set(img *image.RGBA, x, y int, ink color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, ink)
	}
}

// line draws with the integer Bresenham walk.
func line(img *image.RGBA, x0, y0, x1, y1 int, ink color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		set(img, x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func drawString(img *image.RGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textInk),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
