package follower

import (
	"time"

	"github.com/teslashibe/go-linefollower/pkg/drive"
	"github.com/teslashibe/go-linefollower/pkg/vision"
	"gocv.io/x/gocv"
)

// Cycle is the outcome of processing one frame.
type Cycle struct {
	Seq       uint64            `json:"seq"`
	RunID     string            `json:"run_id"`
	Time      time.Time         `json:"time"`
	Waypoints []vision.Waypoint `json:"waypoints"`
	Curvature float64           `json:"curvature"`

	// Target is the lookahead waypoint; meaningful only when HasTarget.
	Target    vision.Waypoint `json:"target"`
	HasTarget bool            `json:"has_target"`

	// Error is Target.X minus the image center column.
	Error   int           `json:"error"`
	Command drive.Command `json:"command"`

	// Actuated is set when a command was sent to the motors this cycle.
	Actuated bool          `json:"actuated"`
	Latency  time.Duration `json:"latency"`
}

// Step evaluates one frame: extract the path, pick the lookahead waypoint
// and compute the wheel command. Without a target the command is zero and
// HasTarget is false.
func Step(frame gocv.Mat, width, height int, vcfg vision.Config, dcfg drive.Config, lookahead int) Cycle {
	start := time.Now()

	c := Decide(vcfg.Extract(frame, width, height), width, dcfg, lookahead)
	c.Time = start
	c.Latency = time.Since(start)
	return c
}

// Decide is Step for a path that was already extracted.
func Decide(path vision.Path, width int, dcfg drive.Config, lookahead int) Cycle {
	c := Cycle{
		Time:      time.Now(),
		Waypoints: path.Waypoints,
		Curvature: path.Curvature,
	}

	if target, ok := path.Lookahead(lookahead); ok {
		c.Target = target
		c.HasTarget = true
		c.Error = target.X - width/2
		c.Command = dcfg.Compute(c.Error, path.Curvature)
	}
	return c
}
