package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/relabs-tech/drawing_board/internal/board"
)

var testLayout = Layout{Length: 100, Breadth: 80, ScaleX: 2, ScaleY: 2}

func TestImageSize(t *testing.T) {
	img := Image(board.Snapshot{}, testLayout)

	wantW := (100 + 2*margin) * 2
	wantH := (80 + 2*margin) * 2
	b := img.Bounds()
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("image size %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestImageDrawsFinalizedDot(t *testing.T) {
	snap := board.Snapshot{
		Finalized: []board.Coordinate{{X: 50, Y: 40}},
	}
	img := Image(snap, testLayout)

	px, py := testLayout.pixel(board.Coordinate{X: 50, Y: 40})
	if got := img.RGBAAt(px, py); got != finalInk {
		t.Errorf("pixel at (%d,%d) = %v, want %v", px, py, got, finalInk)
	}
	// Away from any point the canvas stays white.
	if got := img.RGBAAt(px+20, py+20); got != background {
		t.Errorf("background pixel = %v, want %v", got, background)
	}
}

func TestPixelFlipsBreadthAxis(t *testing.T) {
	_, low := testLayout.pixel(board.Coordinate{X: 0, Y: 0})
	_, high := testLayout.pixel(board.Coordinate{X: 0, Y: 80})
	if high >= low {
		t.Errorf("y=80 maps to row %d, y=0 to row %d; breadth axis should be flipped", high, low)
	}
}

func TestCurveConnectsSamples(t *testing.T) {
	snap := board.Snapshot{
		Curve: []board.Coordinate{{X: 0, Y: 0}, {X: 40, Y: 0}},
	}
	img := Image(snap, testLayout)

	// Every pixel along the horizontal segment carries curve ink.
	x0, y0 := testLayout.pixel(board.Coordinate{X: 0, Y: 0})
	x1, _ := testLayout.pixel(board.Coordinate{X: 40, Y: 0})
	for x := x0; x <= x1; x++ {
		if got := img.RGBAAt(x, y0); got != curveInk {
			t.Fatalf("curve pixel at (%d,%d) = %v, want %v", x, y0, got, curveInk)
		}
	}
}

func TestWritePNGEncodes(t *testing.T) {
	var buf bytes.Buffer
	snap := board.Snapshot{Mode: "freehand", Pending: []board.Coordinate{{X: 1, Y: 1}}}
	if err := WritePNG(&buf, snap, testLayout); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	w, h := testLayout.size()
	if cfg.Width != w || cfg.Height != h {
		t.Errorf("decoded size %dx%d, want %dx%d", cfg.Width, cfg.Height, w, h)
	}
}
