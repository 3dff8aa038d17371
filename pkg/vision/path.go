package vision

import "image"

// Waypoint is a pixel on the fitted curve.
type Waypoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Point returns the waypoint as an image.Point.
func (w Waypoint) Point() image.Point {
	return image.Pt(w.X, w.Y)
}

// Path is the per-frame extraction result.
// The zero value means no line was detected.
type Path struct {
	Waypoints []Waypoint `json:"waypoints"` // Nearest to the robot first
	Curvature float64    `json:"curvature"` // |a| of the fit, 0 without a fit
}

// Found reports whether any waypoint was produced.
func (p Path) Found() bool {
	return len(p.Waypoints) > 0
}

// Lookahead returns the waypoint at index i.
// ok is false when the path is too short, and the caller should skip
// control for this cycle.
func (p Path) Lookahead(i int) (Waypoint, bool) {
	if i < 0 || i >= len(p.Waypoints) {
		return Waypoint{}, false
	}
	return p.Waypoints[i], true
}

// Waypoints samples the curve from the bottom of the frame upward.
//
// Sampling starts BottomMargin rows above the bottom edge and steps
// WaypointStep rows per point. Generation stops at the top of the frame or
// after WaypointCount samples; samples whose x falls outside [0, width) are
// dropped without ending the sequence.
func (c Config) Waypoints(curve Curve, width, height int) []Waypoint {
	waypoints := make([]Waypoint, 0, c.WaypointCount)

	for i := 0; i < c.WaypointCount; i++ {
		y := height - c.BottomMargin - i*c.WaypointStep
		if y < 0 {
			break
		}

		xf := curve.At(float64(y))
		if !finite(xf) || xf <= -1 || xf >= float64(width) {
			continue
		}

		// Truncate toward zero.
		x := int(xf)
		if x < 0 || x >= width {
			continue
		}

		waypoints = append(waypoints, Waypoint{X: x, Y: y})
	}

	return waypoints
}
