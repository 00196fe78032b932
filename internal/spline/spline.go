package spline

import (
	"math"

	"github.com/relabs-tech/drawing_board/internal/board"
)

type point struct {
	x, y float64
}

func midpoint(a, b point) point {
	return point{0.5 * (a.x + b.x), 0.5 * (a.y + b.y)}
}

// quadEval evaluates the quadratic Bézier segment (a, b, c) at parameter t.
func quadEval(a, b, c point, t float64) point {
	mt := 1 - t
	return point{
		mt*mt*a.x + 2*t*mt*b.x + t*t*c.x,
		mt*mt*a.y + 2*t*mt*b.y + t*t*c.y,
	}
}

// QuadFitter fits a piecewise quadratic parametric curve that passes through
// every input point, with zero smoothing.
//
// The curve is encoded the B-spline way: [P₀, C₀, ..., Cₙ₋₂, Pₙ₋₁], where the
// interior on-curve points are the midpoints of consecutive control points.
// Interpolation then reduces to the reflection recurrence
// Cᵢ = 2·Pᵢ − Cᵢ₋₁ with C₀ anchored at P₀, which pins every midpoint onto its
// input point.
type QuadFitter struct{}

var _ board.CurveFitter = QuadFitter{}

// Fit samples the interpolating curve at `samples` evenly spaced parameter
// values over [0, 1]. Fewer than 3 points, or fewer than 2 samples, yield nil.
func (QuadFitter) Fit(points []board.Coordinate, samples int) []board.Coordinate {
	n := len(points)
	if n < 3 || samples < 2 {
		return nil
	}

	pts := make([]point, n)
	for i, p := range points {
		pts[i] = point{float64(p.X), float64(p.Y)}
	}

	// n-1 control points; the first is pinned to the start point, which makes
	// the opening segment straight and the rest follow by reflection.
	ctrl := make([]point, n-1)
	ctrl[0] = pts[0]
	for i := 1; i < n-1; i++ {
		ctrl[i] = point{2*pts[i].x - ctrl[i-1].x, 2*pts[i].y - ctrl[i-1].y}
	}

	segments := n - 1
	segStart := func(i int) point {
		if i == 0 {
			return pts[0]
		}
		return midpoint(ctrl[i-1], ctrl[i])
	}
	segEnd := func(i int) point {
		if i == segments-1 {
			return pts[n-1]
		}
		return midpoint(ctrl[i], ctrl[i+1])
	}

	out := make([]board.Coordinate, samples)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1) * float64(segments)
		seg := int(t)
		if seg >= segments {
			seg = segments - 1
		}
		p := quadEval(segStart(seg), ctrl[seg], segEnd(seg), t-float64(seg))
		out[i] = board.Coordinate{
			X: int(math.Round(p.x)),
			Y: int(math.Round(p.y)),
		}
	}
	return out
}
