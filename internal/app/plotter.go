package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/drawing_board/internal/acquire"
	"github.com/relabs-tech/drawing_board/internal/board"
	"github.com/relabs-tech/drawing_board/internal/cluster"
	"github.com/relabs-tech/drawing_board/internal/config"
	"github.com/relabs-tech/drawing_board/internal/geometry"
	"github.com/relabs-tech/drawing_board/internal/pointfile"
	"github.com/relabs-tech/drawing_board/internal/spline"
)

// Command is one operator instruction, as carried on the command topic.
type Command struct {
	Op   string `json:"op"`
	File string `json:"file,omitempty"`
}

// Operator command set. Save and import carry a file name.
const (
	OpClear       = "clear"
	OpInterpolate = "interpolate"
	OpOutliers    = "outliers"
	OpSave        = "save"
	OpImport      = "import"
)

// renderPause gives downstream renderers a short settle between cycles.
const renderPause = time.Millisecond

// RunPlotter drives the acquisition loop: read averaged coordinates from the
// rig, route them through the session controller, and publish a board
// snapshot per cycle. Operator commands arrive on the command topic.
func RunPlotter() error {
	cfg := config.Get()

	model, err := geometry.NewModel(cfg.WorkspaceLength, cfg.WorkspaceBreadth, cfg.SensorEffectualAngle)
	if err != nil {
		return fmt.Errorf("geometry model: %w", err)
	}
	log.Printf("workspace %dx%d, baselines L=%.1f B=%.1f",
		model.Length, model.Breadth, model.BaselineL, model.BaselineB)

	src, err := openSource(cfg, model)
	if err != nil {
		return err
	}
	defer src.Close()
	log.Printf("line source %q ready", cfg.LineSource)

	ctrl := board.NewController(
		spline.QuadFitter{},
		cluster.DBSCAN{Eps: cfg.DBSCANEps, MinSamples: cfg.DBSCANMinSamples},
		pointfile.Store{},
		board.Params{
			CurveSamples:    cfg.SplineMaxPoints,
			GateMinDistance: float64(cfg.SplineMinDistance),
			GateMaxDistance: float64(cfg.SplineMaxDistance),
		},
	)

	// ---- connect to MQTT ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDPlotter)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("plotter connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- subscribe to operator commands ----
	commands := make(chan Command, 16)
	token := client.Subscribe(cfg.TopicCommand, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var c Command
		if err := json.Unmarshal(msg.Payload(), &c); err != nil {
			log.Printf("command unmarshal error: %v", err)
			return
		}
		select {
		case commands <- c:
		default:
			log.Printf("command queue full, dropping %q", c.Op)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to %s", cfg.TopicCommand)

	avg := acquire.Averager{
		Source:    src,
		Model:     model,
		Quota:     cfg.ReadingAverageOf,
		SensorMin: cfg.SensorMinDistance,
		SensorMax: cfg.SensorMaxDistance,
	}

	publish := func(s board.Snapshot) error {
		payload, err := json.Marshal(s)
		if err != nil {
			return err
		}
		t := client.Publish(cfg.TopicSnapshot, 0, true, payload)
		t.Wait()
		return t.Error()
	}

	loop := sessionLoop{
		ctrl:     ctrl,
		acquire:  avg.Acquire,
		publish:  publish,
		sleep:    time.Sleep,
		commands: commands,
		delay:    time.Duration(cfg.ReadingDelay) * time.Millisecond,
		timeout:  time.Duration(cfg.AcquireTimeout) * time.Millisecond,
	}
	return loop.run(context.Background())
}

func openSource(cfg *config.Config, model geometry.Model) (acquire.Source, error) {
	switch cfg.LineSource {
	case "serial":
		return acquire.OpenSerial(cfg.SerialPort, uint(cfg.SerialBaud))
	case "replay":
		return acquire.OpenReplay(cfg.ReplayFile)
	default:
		return acquire.NewMockSource(model), nil
	}
}

// sessionLoop is the single logical thread of control: commands, then one
// averaged coordinate, then a snapshot, then the inter-reading delay. The
// clock and collaborators are injected so tests can run it on synthetic
// inputs.
type sessionLoop struct {
	ctrl     *board.Controller
	acquire  func(context.Context) (board.Coordinate, error)
	publish  func(board.Snapshot) error
	sleep    func(time.Duration)
	commands <-chan Command
	delay    time.Duration
	timeout  time.Duration

	seq uint64 // per published snapshot
}

func (l *sessionLoop) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.drainCommands()

		acqCtx, cancel := context.WithTimeout(ctx, l.timeout)
		p, err := l.acquire(acqCtx)
		cancel()

		switch {
		case err == nil:
			l.ctrl.Plot(p)
		case errors.Is(err, acquire.ErrStall):
			// Surfaced to the operator; the cycle keeps running so commands
			// stay responsive while the rig is silent.
			log.Printf("acquisition stalled: %v", err)
		case errors.Is(err, geometry.ErrDegenerateGeometry):
			return err
		case errors.Is(err, io.EOF):
			log.Println("line source exhausted, stopping")
			l.publishSnapshot()
			return nil
		default:
			return err
		}

		l.publishSnapshot()

		l.sleep(l.delay)
		l.sleep(renderPause)
	}
}

func (l *sessionLoop) publishSnapshot() {
	snap := l.ctrl.Snapshot()
	l.seq++
	snap.Seq = l.seq
	if err := l.publish(snap); err != nil {
		log.Printf("snapshot publish error: %v", err)
	}
}

func (l *sessionLoop) drainCommands() {
	for {
		select {
		case c := <-l.commands:
			l.apply(c)
		default:
			return
		}
	}
}

func (l *sessionLoop) apply(c Command) {
	switch c.Op {
	case OpClear:
		l.ctrl.Clear()
		log.Println("board cleared")
	case OpInterpolate:
		log.Printf("mode is now %s", l.ctrl.ToggleInterpolate())
	case OpOutliers:
		l.ctrl.RemoveOutliers()
		log.Println("outliers removed")
	case OpSave:
		if c.File == "" {
			log.Println("save command without a file name, ignored")
			return
		}
		if err := l.ctrl.Save(c.File); err != nil {
			log.Printf("save %s: %v", c.File, err)
			return
		}
		log.Printf("saved points to %s", c.File)
	case OpImport:
		if c.File == "" {
			log.Println("import command without a file name, ignored")
			return
		}
		if err := l.ctrl.Import(c.File); err != nil {
			log.Printf("import %s: %v", c.File, err)
			return
		}
		log.Printf("imported points from %s", c.File)
	default:
		log.Printf("unknown command %q, ignored", c.Op)
	}
}
