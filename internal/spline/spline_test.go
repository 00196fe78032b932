package spline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/relabs-tech/drawing_board/internal/board"
)

func TestFitRejectsSmallInputs(t *testing.T) {
	f := QuadFitter{}

	if got := f.Fit(nil, 10); got != nil {
		t.Errorf("Fit(nil) = %v, want nil", got)
	}
	two := []board.Coordinate{{X: 0, Y: 0}, {X: 5, Y: 5}}
	if got := f.Fit(two, 10); got != nil {
		t.Errorf("Fit(2 points) = %v, want nil", got)
	}
	three := []board.Coordinate{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
	if got := f.Fit(three, 1); got != nil {
		t.Errorf("Fit with 1 sample = %v, want nil", got)
	}
}

func TestFitSampleCountAndEndpoints(t *testing.T) {
	f := QuadFitter{}
	in := []board.Coordinate{{X: 0, Y: 0}, {X: 10, Y: 20}, {X: 30, Y: 10}, {X: 40, Y: 40}}

	got := f.Fit(in, 25)
	if len(got) != 25 {
		t.Fatalf("len = %d, want 25", len(got))
	}
	if got[0] != in[0] {
		t.Errorf("curve starts at %v, want %v", got[0], in[0])
	}
	if got[len(got)-1] != in[len(in)-1] {
		t.Errorf("curve ends at %v, want %v", got[len(got)-1], in[len(in)-1])
	}
}

func TestFitPassesThroughEveryInputPoint(t *testing.T) {
	f := QuadFitter{}
	in := []board.Coordinate{{X: 0, Y: 0}, {X: 10, Y: 20}, {X: 30, Y: 10}, {X: 40, Y: 40}}

	// With one sample per segment boundary the parameter lands exactly on the
	// segment joints, which are pinned to the input points.
	got := f.Fit(in, len(in))
	if d := cmp.Diff(in, got); d != "" {
		t.Error(d)
	}
}

func TestFitCollinearStaysOnLine(t *testing.T) {
	f := QuadFitter{}
	in := []board.Coordinate{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 30}}

	for _, p := range f.Fit(in, 31) {
		if p.X != p.Y {
			t.Fatalf("sample %v strays off the y=x line", p)
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	f := QuadFitter{}
	in := []board.Coordinate{{X: 3, Y: 1}, {X: 8, Y: 9}, {X: 15, Y: 2}}

	if d := cmp.Diff(f.Fit(in, 40), f.Fit(in, 40)); d != "" {
		t.Error(d)
	}
}
