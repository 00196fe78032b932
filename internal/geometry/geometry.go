package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/relabs-tech/drawing_board/internal/board"
)

// DistancePair is one validated reading from the dual-emitter rig: the
// measured distance along the length axis and along the breadth axis, in the
// same unit as the workspace dimensions.
type DistancePair struct {
	DL int
	DB int
}

var (
	// ErrFormat rejects samples without exactly two separators or shorter
	// than the minimum frame length.
	ErrFormat = errors.New("sample has wrong shape")
	// ErrParse rejects samples whose distance fields are not integers.
	ErrParse = errors.New("sample fields are not integers")
	// ErrRange rejects distances outside the physical bounds of the rig.
	ErrRange = errors.New("distance outside physical bounds")
	// ErrDegenerateGeometry reports coinciding virtual anchors. This is a
	// configuration problem, not a transient input problem.
	ErrDegenerateGeometry = errors.New("virtual anchors coincide")
)

// ParseSample decodes one raw transport line of the form "<dL>,<dB>," into a
// distance pair. The frame carries exactly two comma separators, the second
// one terminating the line.
func ParseSample(line string) (DistancePair, error) {
	if strings.Count(line, ",") != 2 || len(line) < 4 {
		return DistancePair{}, ErrFormat
	}
	body := line[:len(line)-1]
	sep := strings.IndexByte(body, ',')
	dl, err := strconv.Atoi(body[:sep])
	if err != nil {
		return DistancePair{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	db, err := strconv.Atoi(body[sep+1:])
	if err != nil {
		return DistancePair{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return DistancePair{DL: dl, DB: db}, nil
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

func sq(n float64) float64 { return n * n }

// Model holds the fixed trilateration geometry derived once at startup from
// the workspace dimensions and the sensor's effectual angle.
//
// Each axis has a virtual anchor sitting outside the workspace rectangle,
// offset from the edge by a baseline of dimension/(2·sin(angle)). A reading is
// plausible iff it lies between the baseline and the reach to the far corner.
type Model struct {
	Length  int
	Breadth int

	BaselineL float64
	BaselineB float64
	MaxL      float64
	MaxB      float64

	// anchor of the length-axis emitter and of the breadth-axis emitter
	alx, aly float64
	abx, aby float64
}

// NewModel derives the baselines, range bounds and anchor positions.
func NewModel(length, breadth, effectualAngleDeg int) (Model, error) {
	if length <= 0 || breadth <= 0 {
		return Model{}, fmt.Errorf("workspace dimensions must be positive, got %dx%d", length, breadth)
	}
	s := math.Sin(DegToRad(float64(effectualAngleDeg)))
	if s <= 0 {
		return Model{}, fmt.Errorf("effectual angle %d° has no usable field of view", effectualAngleDeg)
	}

	m := Model{
		Length:    length,
		Breadth:   breadth,
		BaselineL: float64(length) / (2 * s),
		BaselineB: float64(breadth) / (2 * s),
	}
	m.MaxL = math.Sqrt(sq(m.BaselineL+float64(breadth)) + sq(float64(length)/2))
	m.MaxB = math.Sqrt(sq(m.BaselineB+float64(length)) + sq(float64(breadth)/2))

	m.alx = float64(length) / 2
	m.aly = float64(breadth) + m.BaselineL
	m.abx = float64(length) + m.BaselineB
	m.aby = float64(breadth) / 2
	return m, nil
}

// ValidateRange accepts a pair iff both distances fall within the per-axis
// [baseline, max] bounds, boundaries inclusive.
func (m Model) ValidateRange(d DistancePair) error {
	if dl := float64(d.DL); dl < m.BaselineL || dl > m.MaxL {
		return fmt.Errorf("%w: dL=%d not in [%.0f, %.0f]", ErrRange, d.DL, m.BaselineL, m.MaxL)
	}
	if db := float64(d.DB); db < m.BaselineB || db > m.MaxB {
		return fmt.Errorf("%w: dB=%d not in [%.0f, %.0f]", ErrRange, d.DB, m.BaselineB, m.MaxB)
	}
	return nil
}

// Trilaterate intersects the two reading circles around the virtual anchors
// and wraps the solution into the workspace. The intersection is found by
// projecting the unknown point onto the anchor-to-anchor line and solving the
// perpendicular offset from the Pythagorean relation.
func (m Model) Trilaterate(d DistancePair) (board.Coordinate, error) {
	p := float64(d.DL)
	u := float64(d.DB)

	e := math.Sqrt(sq(m.alx-m.abx) + sq(m.aly-m.aby))
	if e == 0 {
		return board.Coordinate{}, ErrDegenerateGeometry
	}

	f := (sq(p) - sq(u) + sq(e)) / (2 * e)
	// Measurement noise can push the radicand slightly negative; treat the
	// circles as tangent in that case.
	g := 0.0
	if r := sq(p) - sq(f); r > 0 {
		g = math.Sqrt(r)
	}

	x := (f/e)*(m.abx-m.alx) + (g/e)*(m.aby-m.aly) + m.alx
	y := (f/e)*(m.aby-m.aly) - (g/e)*(m.abx-m.alx) + m.aly

	return board.Coordinate{
		X: wrap(x, m.Length),
		Y: wrap(y, m.Breadth),
	}, nil
}

// DistancesTo returns the anchor distances a rig held over (x, y) would
// report. It is the inverse of Trilaterate, used by the mock source.
func (m Model) DistancesTo(x, y float64) DistancePair {
	return DistancePair{
		DL: int(math.Round(math.Sqrt(sq(x-m.alx) + sq(y-m.aly)))),
		DB: int(math.Round(math.Sqrt(sq(x-m.abx) + sq(y-m.aby)))),
	}
}

// wrap truncates and folds a raw solve value into [0, limit).
func wrap(v float64, limit int) int {
	n := int(v) % limit
	if n < 0 {
		n += limit
	}
	return n
}
