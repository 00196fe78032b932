package board

import "math"

// Coordinate is a single point on the drawing board, in workspace units.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the euclidean distance between two coordinates.
func (c Coordinate) Distance(o Coordinate) float64 {
	return math.Hypot(float64(c.X-o.X), float64(c.Y-o.Y))
}

// Mode selects which buffer newly acquired coordinates land in.
type Mode int

const (
	// Freehand appends each coordinate directly to the finalized set.
	Freehand Mode = iota
	// Interpolating buffers coordinates for spline interpolation.
	Interpolating
)

func (m Mode) String() string {
	switch m {
	case Freehand:
		return "freehand"
	case Interpolating:
		return "interpolating"
	default:
		return "unknown"
	}
}

// Snapshot is one renderable view of the board, published each cycle.
type Snapshot struct {
	Seq   uint64 `json:"seq"` // assigned by the publisher, increases per published snapshot
	Epoch int    `json:"epoch"` // bumped on Clear so renderers reset their viewport
	Mode  string `json:"mode"`

	Finalized []Coordinate `json:"finalized"`
	Pending   []Coordinate `json:"pending"`
	Curve     []Coordinate `json:"curve"`

	Last    Coordinate `json:"last"`
	HasLast bool       `json:"has_last"`
}

// CurveFitter produces sampled points along a parametric curve that passes
// through every input point. Inputs are unique; fewer than 3 points yield nil.
type CurveFitter interface {
	Fit(points []Coordinate, samples int) []Coordinate
}

// DensityClusterer labels a point set and returns the points that belong to a
// dense cluster, dropping noise. Must be deterministic for a given input.
type DensityClusterer interface {
	Inliers(points []Coordinate) []Coordinate
}
