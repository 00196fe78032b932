package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/relabs-tech/drawing_board/internal/acquire"
	"github.com/relabs-tech/drawing_board/internal/board"
	"github.com/relabs-tech/drawing_board/internal/cluster"
	"github.com/relabs-tech/drawing_board/internal/geometry"
	"github.com/relabs-tech/drawing_board/internal/pointfile"
	"github.com/relabs-tech/drawing_board/internal/spline"
)

func testController() *board.Controller {
	return board.NewController(
		spline.QuadFitter{},
		cluster.DBSCAN{Eps: 5, MinSamples: 3},
		pointfile.Store{},
		board.Params{CurveSamples: 10, GateMinDistance: 0, GateMaxDistance: 1e9},
	)
}

// testLoop wires a sessionLoop to scripted acquisitions and captures every
// published snapshot. The context is cancelled once the script runs out.
func testLoop(ctrl *board.Controller, script []func() (board.Coordinate, error), commands <-chan Command) ([]board.Snapshot, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var published []board.Snapshot
	step := 0

	loop := sessionLoop{
		ctrl: ctrl,
		acquire: func(context.Context) (board.Coordinate, error) {
			if step >= len(script) {
				cancel()
				return board.Coordinate{}, acquire.ErrStall
			}
			fn := script[step]
			step++
			return fn()
		},
		publish: func(s board.Snapshot) error {
			published = append(published, s)
			return nil
		},
		sleep:    func(time.Duration) {},
		commands: commands,
		delay:    time.Millisecond,
		timeout:  time.Second,
	}
	err := loop.run(ctx)
	return published, err
}

func point(x, y int) func() (board.Coordinate, error) {
	return func() (board.Coordinate, error) { return board.Coordinate{X: x, Y: y}, nil }
}

func TestSessionLoopPlotsAndPublishes(t *testing.T) {
	ctrl := testController()

	published, err := testLoop(ctrl, []func() (board.Coordinate, error){
		point(1, 1),
		point(2, 2),
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run returned %v, want context.Canceled", err)
	}

	if len(published) < 2 {
		t.Fatalf("published %d snapshots, want at least 2", len(published))
	}
	last := published[len(published)-1]
	if len(last.Finalized) != 2 {
		t.Errorf("finalized = %v, want 2 points", last.Finalized)
	}
	if published[0].Seq >= last.Seq {
		t.Errorf("snapshot sequence not increasing: %d then %d", published[0].Seq, last.Seq)
	}
}

func TestSessionLoopSurvivesStall(t *testing.T) {
	ctrl := testController()

	stall := func() (board.Coordinate, error) {
		return board.Coordinate{}, acquire.ErrStall
	}
	published, err := testLoop(ctrl, []func() (board.Coordinate, error){
		stall,
		point(4, 4),
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run returned %v, want context.Canceled", err)
	}

	// The stalled cycle still published, and the next one recovered.
	if len(published) < 2 {
		t.Fatalf("published %d snapshots, want at least 2", len(published))
	}
	last := published[len(published)-1]
	if len(last.Finalized) != 1 {
		t.Errorf("finalized = %v, want the post-stall point", last.Finalized)
	}
}

func TestSessionLoopStopsOnDegenerateGeometry(t *testing.T) {
	ctrl := testController()

	_, err := testLoop(ctrl, []func() (board.Coordinate, error){
		func() (board.Coordinate, error) {
			return board.Coordinate{}, geometry.ErrDegenerateGeometry
		},
	}, nil)
	if !errors.Is(err, geometry.ErrDegenerateGeometry) {
		t.Fatalf("run returned %v, want ErrDegenerateGeometry", err)
	}
}

func TestSessionLoopAppliesQueuedCommands(t *testing.T) {
	ctrl := testController()

	commands := make(chan Command, 4)
	commands <- Command{Op: OpInterpolate}

	published, err := testLoop(ctrl, []func() (board.Coordinate, error){
		point(1, 1),
	}, commands)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run returned %v, want context.Canceled", err)
	}

	last := published[len(published)-1]
	if last.Mode != board.Interpolating.String() {
		t.Errorf("mode = %q, want interpolating", last.Mode)
	}
	if len(last.Pending) != 1 {
		t.Errorf("pending = %v, want the routed point", last.Pending)
	}
}

func TestApplySaveCommandWritesFile(t *testing.T) {
	ctrl := testController()
	ctrl.Plot(board.Coordinate{X: 1, Y: 2})

	loop := sessionLoop{ctrl: ctrl}
	name := filepath.Join(t.TempDir(), "out.csv")
	loop.apply(Command{Op: OpSave, File: name})

	points, err := (pointfile.Store{}).Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(points) != 1 || points[0] != (board.Coordinate{X: 1, Y: 2}) {
		t.Errorf("saved points = %v", points)
	}
}

func TestApplyIgnoresUnknownAndNamelessCommands(t *testing.T) {
	ctrl := testController()
	ctrl.Plot(board.Coordinate{X: 1, Y: 2})
	loop := sessionLoop{ctrl: ctrl}

	loop.apply(Command{Op: "warp"})
	loop.apply(Command{Op: OpSave})   // no file name
	loop.apply(Command{Op: OpImport}) // no file name

	if got := ctrl.Snapshot().Finalized; len(got) != 1 {
		t.Errorf("finalized = %v, want untouched single point", got)
	}
}
