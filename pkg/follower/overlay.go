package follower

import (
	"image/color"

	"gocv.io/x/gocv"
)

var (
	pathColor     = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	waypointColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	targetColor   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// DrawOverlay draws the cycle's path onto img: a yellow polyline through
// the waypoints, a green dot on each and a red dot on the target.
func DrawOverlay(img *gocv.Mat, c Cycle) {
	for i := 1; i < len(c.Waypoints); i++ {
		gocv.Line(img, c.Waypoints[i-1].Point(), c.Waypoints[i].Point(), pathColor, 2)
	}
	for _, w := range c.Waypoints {
		gocv.Circle(img, w.Point(), 5, waypointColor, -1)
	}
	if c.HasTarget {
		gocv.Circle(img, c.Target.Point(), 10, targetColor, -1)
	}
}
