package board

// PointStore persists the finalized set as flat x,y rows.
type PointStore interface {
	Write(name string, points []Coordinate) error
	Read(name string) ([]Coordinate, error)
}

// Params are the interpolation tuning values, fixed for the session.
type Params struct {
	// CurveSamples is the number of points sampled along the fitted curve.
	CurveSamples int
	// GateMinDistance and GateMaxDistance bound the distance between the two
	// most recently buffered points; a recompute outside the bounds is skipped.
	GateMinDistance float64
	GateMaxDistance float64
}

// Controller owns the board state and applies operator commands to it.
// It is not safe for concurrent use; the session loop is single-threaded.
type Controller struct {
	fitter    CurveFitter
	clusterer DensityClusterer
	store     PointStore
	params    Params

	mode      Mode
	epoch     int
	finalized []Coordinate
	pending   []Coordinate
	curve     []Coordinate
	last      Coordinate
	hasLast   bool
}

func NewController(fitter CurveFitter, clusterer DensityClusterer, store PointStore, params Params) *Controller {
	return &Controller{
		fitter:    fitter,
		clusterer: clusterer,
		store:     store,
		params:    params,
	}
}

// Mode reports the current session mode.
func (c *Controller) Mode() Mode { return c.mode }

// Plot routes one acquired coordinate into the buffer selected by the mode.
func (c *Controller) Plot(p Coordinate) {
	c.last = p
	c.hasLast = true

	if c.mode == Freehand {
		c.finalized = append(c.finalized, p)
		return
	}

	for _, q := range c.pending {
		if q == p {
			// Duplicate of a buffered point; the pending set is unchanged so
			// there is nothing to recompute.
			return
		}
	}
	c.pending = append(c.pending, p)

	if n := len(c.pending); n >= 2 {
		d := c.pending[n-1].Distance(c.pending[n-2])
		if d < c.params.GateMinDistance || d > c.params.GateMaxDistance {
			return
		}
	}
	c.recompute()
}

func (c *Controller) recompute() {
	if len(c.pending) < 3 {
		c.curve = nil
		return
	}
	c.curve = c.fitter.Fit(c.pending, c.params.CurveSamples)
}

// merge commits pending work: buffered points first, then the sampled curve,
// are appended to the finalized set, both buffers are cleared, and the session
// returns to freehand mode.
func (c *Controller) merge() {
	c.finalized = append(c.finalized, c.pending...)
	c.finalized = append(c.finalized, c.curve...)
	c.pending = nil
	c.curve = nil
	c.mode = Freehand
}

// ToggleInterpolate flips the session mode. Leaving interpolating mode merges
// the pending buffer and curve into the finalized set.
func (c *Controller) ToggleInterpolate() Mode {
	if c.mode == Interpolating {
		c.merge()
	} else {
		c.mode = Interpolating
	}
	return c.mode
}

// Clear empties every buffer and bumps the viewport epoch. The mode is kept.
func (c *Controller) Clear() {
	c.finalized = nil
	c.pending = nil
	c.curve = nil
	c.hasLast = false
	c.epoch++
}

// RemoveOutliers merges, then replaces the finalized set with the points the
// clusterer labels as belonging to a dense region.
func (c *Controller) RemoveOutliers() {
	c.merge()
	if len(c.finalized) == 0 {
		return
	}
	c.finalized = c.clusterer.Inliers(c.finalized)
}

// Save merges, then writes the finalized set to the named file.
func (c *Controller) Save(name string) error {
	c.merge()
	return c.store.Write(name, c.finalized)
}

// Import merges, then replaces the finalized set wholesale with the rows read
// from the named file. Every point held before the Import, including the ones
// just merged in, is discarded. A read error leaves the post-merge state
// untouched.
func (c *Controller) Import(name string) error {
	c.merge()
	points, err := c.store.Read(name)
	if err != nil {
		return err
	}
	c.finalized = points
	return nil
}

// Snapshot returns a copy of the current buffers. It does not modify the
// controller; the publisher assigns Seq.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Epoch:     c.epoch,
		Mode:      c.mode.String(),
		Finalized: append([]Coordinate(nil), c.finalized...),
		Pending:   append([]Coordinate(nil), c.pending...),
		Curve:     append([]Coordinate(nil), c.curve...),
		Last:      c.last,
		HasLast:   c.hasLast,
	}
}
