package follower

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-linefollower/internal/log"
	"github.com/teslashibe/go-linefollower/pkg/camera"
	"github.com/teslashibe/go-linefollower/pkg/drive"
	"github.com/teslashibe/go-linefollower/pkg/vision"
	"gocv.io/x/gocv"
)

// FrameSource delivers camera frames.
type FrameSource interface {
	Read(dst *gocv.Mat) error
}

// Actuator applies wheel commands.
type Actuator interface {
	Drive(cmd drive.Command) error
	Stop() error
}

// Publisher receives telemetry, e.g. the dashboard.
type Publisher interface {
	PublishCycle(c Cycle)
	PublishFrame(jpeg []byte)
}

// Runner owns the control loop. Frames are processed one at a time on the
// goroutine calling Run.
type Runner struct {
	config    Config
	vision    vision.Config
	drive     drive.Config
	source    FrameSource
	actuator  Actuator
	publisher Publisher

	width  int
	height int

	quality int
	encode  func(frame gocv.Mat, quality int) ([]byte, error)

	runID string
	seq   uint64
	lost  bool
	log   *slog.Logger
}

// New creates a runner for frames of the given size.
func New(cfg Config, vcfg vision.Config, dcfg drive.Config, source FrameSource, actuator Actuator, width, height int) *Runner {
	return &Runner{
		config:   cfg,
		vision:   vcfg,
		drive:    dcfg,
		source:   source,
		actuator: actuator,
		width:    width,
		height:   height,
		quality:  camera.DefaultConfig().Quality,
		encode:   camera.EncodeJPEG,
		runID:    uuid.NewString(),
		log:      log.Component("follower"),
	}
}

// SetPublisher sets the telemetry publisher. Must be called before Run.
func (r *Runner) SetPublisher(p Publisher) {
	r.publisher = p
}

// SetStreamQuality sets the JPEG quality of streamed frames, normally the
// camera's Quality. Must be called before Run.
func (r *Runner) SetStreamQuality(quality int) {
	r.quality = quality
}

// RunID identifies this run in telemetry.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes frames until the context is cancelled or the source fails.
// The actuator is stopped on return. Cancellation returns nil.
func (r *Runner) Run(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	defer func() {
		if err := r.actuator.Stop(); err != nil {
			r.log.Warn("stop failed", "error", err)
		}
	}()

	fmt.Printf("🤖 Line follower started (run %s)\n", r.runID[:8])
	fmt.Printf("    Frame: %dx%d, lookahead: %d, on line lost: %s\n",
		r.width, r.height, r.config.LookaheadIndex, r.config.OnLineLost)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("runner stopped", "cycles", r.seq)
			return nil
		default:
		}

		if err := r.source.Read(&frame); err != nil {
			if ctx.Err() != nil {
				r.log.Info("runner stopped", "cycles", r.seq)
				return nil
			}
			return fmt.Errorf("follower: read frame: %w", err)
		}

		c := r.process(frame)

		if r.publisher != nil {
			r.publisher.PublishCycle(c)
			if r.config.StreamEvery > 0 && c.Seq%uint64(r.config.StreamEvery) == 0 {
				r.publishFrame(frame, c)
			}
		}
	}
}

// process runs one cycle and actuates the result.
func (r *Runner) process(frame gocv.Mat) Cycle {
	c := Step(frame, r.width, r.height, r.vision, r.drive, r.config.LookaheadIndex)

	r.seq++
	c.Seq = r.seq
	c.RunID = r.runID

	if c.HasTarget {
		if r.lost {
			r.log.Info("line reacquired", "seq", c.Seq)
			r.lost = false
		}
		c.Actuated = r.send(c.Command)
	} else {
		if !r.lost {
			r.log.Warn("line lost", "seq", c.Seq, "waypoints", len(c.Waypoints))
			r.lost = true
		}
		if r.config.OnLineLost == LineLostStop {
			c.Actuated = r.send(drive.Stop)
		}
	}

	c.Latency = time.Since(c.Time)
	r.log.Debug("cycle",
		"seq", c.Seq,
		"target_x", c.Target.X,
		"curvature", c.Curvature,
		"left", c.Command.Left,
		"right", c.Command.Right)

	return c
}

func (r *Runner) send(cmd drive.Command) bool {
	if err := r.actuator.Drive(cmd); err != nil {
		r.log.Warn("drive failed", "command", cmd.String(), "error", err)
		return false
	}
	return true
}

func (r *Runner) publishFrame(frame gocv.Mat, c Cycle) {
	img := frame.Clone()
	defer img.Close()

	if r.config.Overlay {
		DrawOverlay(&img, c)
	}

	data, err := r.encode(img, r.quality)
	if err != nil {
		r.log.Warn("frame encode failed", "error", err)
		return
	}
	r.publisher.PublishFrame(data)
}
