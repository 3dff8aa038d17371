// Package follower runs the read, process and actuate loop that keeps the
// robot on the line.
package follower

import "fmt"

// Line-lost policies.
const (
	// LineLostHold sends nothing and lets the motors keep their last command.
	LineLostHold = "hold"
	// LineLostStop sends a zero command on every cycle without a target.
	LineLostStop = "stop"
)

// Config holds runner settings.
type Config struct {
	// LookaheadIndex selects the waypoint steered toward. Index 2 sits about
	// 120 px above the bottom of a 480 px frame.
	LookaheadIndex int `json:"lookahead_index" mapstructure:"lookahead_index"`

	// OnLineLost is LineLostHold or LineLostStop.
	OnLineLost string `json:"on_line_lost" mapstructure:"on_line_lost"`

	// StreamEvery publishes every Nth frame as JPEG. 0 disables streaming.
	// The JPEG quality comes from the camera config.
	StreamEvery int `json:"stream_every" mapstructure:"stream_every"`

	// Overlay draws waypoints and the target on streamed frames.
	Overlay bool `json:"overlay" mapstructure:"overlay"`
}

// DefaultConfig returns the reference runner settings.
func DefaultConfig() Config {
	return Config{
		LookaheadIndex: 2,
		OnLineLost:     LineLostHold,
		StreamEvery:    3,
		Overlay:        true,
	}
}

// Validate returns a list of problems, or nil if the config is usable.
func (c Config) Validate() []string {
	var errs []string

	if c.LookaheadIndex < 0 {
		errs = append(errs, "lookahead_index must not be negative")
	}
	if c.OnLineLost != LineLostHold && c.OnLineLost != LineLostStop {
		errs = append(errs, fmt.Sprintf("on_line_lost must be %q or %q", LineLostHold, LineLostStop))
	}
	if c.StreamEvery < 0 {
		errs = append(errs, "stream_every must not be negative")
	}

	return errs
}
