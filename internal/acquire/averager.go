package acquire

import (
	"context"
	"errors"
	"fmt"

	"github.com/relabs-tech/drawing_board/internal/board"
	"github.com/relabs-tech/drawing_board/internal/geometry"
)

// Averager pulls raw samples from a source, keeps the ones that survive
// parsing, range validation and trilateration, and averages a fixed quota of
// them into one denoised coordinate.
type Averager struct {
	Source Source
	Model  geometry.Model
	// Quota is how many valid coordinates make up one averaged reading.
	Quota int
	// SensorMin and SensorMax bound raw distances to the transducer's usable
	// range, before any geometric validation. SensorMax zero disables the
	// check.
	SensorMin int
	SensorMax int
}

// Acquire blocks until the quota of valid coordinates is met, then returns
// the integer-floored per-axis mean. Rejected samples are skipped silently.
// The context bounds the wait: on expiry Acquire returns ErrStall instead of
// spinning against a silent rig forever.
func (a Averager) Acquire(ctx context.Context) (board.Coordinate, error) {
	var sumX, sumY, valid int

	for valid < a.Quota {
		if err := ctx.Err(); err != nil {
			return board.Coordinate{}, fmt.Errorf("%w (%d/%d readings, %v)", ErrStall, valid, a.Quota, err)
		}

		line, err := a.Source.Next()
		if err != nil {
			return board.Coordinate{}, err
		}

		pair, err := geometry.ParseSample(line)
		if err != nil {
			continue
		}
		if a.SensorMax > 0 && !a.withinSensorRange(pair) {
			continue
		}
		if err := a.Model.ValidateRange(pair); err != nil {
			continue
		}
		p, err := a.Model.Trilaterate(pair)
		if err != nil {
			// Degenerate geometry is a configuration fault, not a bad sample.
			if errors.Is(err, geometry.ErrDegenerateGeometry) {
				return board.Coordinate{}, err
			}
			continue
		}

		sumX += p.X
		sumY += p.Y
		valid++
	}

	return board.Coordinate{X: sumX / a.Quota, Y: sumY / a.Quota}, nil
}

func (a Averager) withinSensorRange(d geometry.DistancePair) bool {
	return d.DL >= a.SensorMin && d.DL <= a.SensorMax &&
		d.DB >= a.SensorMin && d.DB <= a.SensorMax
}
