package drive

import (
	"fmt"
	"math"
)

// Command is a pair of wheel powers. Negative values reverse the wheel.
type Command struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Stop is the zero command.
var Stop = Command{}

// String formats the command the way the control loop prints it.
func (c Command) String() string {
	return fmt.Sprintf("L: %4d  R: %4d", c.Left, c.Right)
}

// Compute returns wheel powers with the default constants.
//
// errorPx is the lookahead x minus the image center x: positive means the
// target is right of center, which speeds up the left wheel.
func Compute(errorPx int, curvature float64) Command {
	return DefaultConfig().Compute(errorPx, curvature)
}

// Compute returns wheel powers for a lookahead error and path curvature.
// It keeps no state between calls.
func (c Config) Compute(errorPx int, curvature float64) Command {
	base := c.BaseSpeed(curvature)
	turn := float64(errorPx) * c.Kp
	left, right := Mix(base, turn)

	return Command{
		Left:  c.clampPower(left),
		Right: c.clampPower(right),
	}
}

// CurveFactor normalizes curvature against SharpCurve into [0, 1].
// A NaN curvature is treated as a sharp curve.
func (c Config) CurveFactor(curvature float64) float64 {
	if math.IsNaN(curvature) {
		return 1
	}
	return clamp(curvature/c.SharpCurve, 0, 1)
}

// BaseSpeed interpolates linearly from MaxSpeed on a straight line down to
// MinSpeed at SharpCurve, truncated to an integer.
func (c Config) BaseSpeed(curvature float64) int {
	factor := c.CurveFactor(curvature)
	return int(float64(c.MaxSpeed) - factor*float64(c.MaxSpeed-c.MinSpeed))
}

// Mix applies a steering correction symmetrically around the base speed.
func Mix(base int, turn float64) (left, right float64) {
	return float64(base) + turn, float64(base) - turn
}

// clampPower clamps before truncating so values just past the limit land
// exactly on it.
func (c Config) clampPower(v float64) int {
	limit := float64(c.PowerLimit)
	return int(clamp(v, -limit, limit))
}

// clamp limits a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
