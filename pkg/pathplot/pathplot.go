// Package pathplot renders a fitted path for offline inspection: the line
// pixels, the fitted curve and the waypoints, in image coordinates.
package pathplot

import (
	"fmt"
	"image"
	"image/color"

	"github.com/teslashibe/go-linefollower/pkg/vision"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MaxSamples caps how many line pixels are drawn.
const MaxSamples = 4000

var (
	sampleColor   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	curveColor    = color.RGBA{R: 220, G: 180, B: 0, A: 255}
	waypointColor = color.RGBA{R: 0, G: 160, B: 0, A: 255}
)

// Render writes the plot to path. The format follows the extension
// (.png, .svg, .pdf). fitted is false when no curve exists; the pixels
// are then drawn alone.
func Render(samples []image.Point, curve vision.Curve, fitted bool, waypoints []vision.Waypoint, width, height int, path string) error {
	p := plot.New()
	p.Title.Text = "Path fit"
	if fitted {
		p.Title.Text = fmt.Sprintf("x = %.5f·y² %+.3f·y %+.1f", curve.A, curve.B, curve.C)
	}
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px)"
	p.X.Min, p.X.Max = 0, float64(width)
	p.Y.Min, p.Y.Max = 0, float64(height)
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())

	if pts := sampleXYs(samples); len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("pathplot: samples: %w", err)
		}
		s.GlyphStyle.Color = sampleColor
		s.GlyphStyle.Radius = vg.Points(0.6)
		p.Add(s)
		p.Legend.Add("line pixels", s)
	}

	if fitted {
		if pts := curveXYs(curve, width, height); len(pts) > 1 {
			l, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("pathplot: curve: %w", err)
			}
			l.Color = curveColor
			l.Width = vg.Points(1.5)
			p.Add(l)
			p.Legend.Add("fit", l)
		}
	}

	if len(waypoints) > 0 {
		pts := make(plotter.XYs, len(waypoints))
		for i, w := range waypoints {
			pts[i] = plotter.XY{X: float64(w.X), Y: float64(w.Y)}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("pathplot: waypoints: %w", err)
		}
		s.GlyphStyle.Color = waypointColor
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("waypoints", s)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(6*vg.Inch, 4.5*vg.Inch, path); err != nil {
		return fmt.Errorf("pathplot: save %s: %w", path, err)
	}
	return nil
}

// sampleXYs converts pixels to plot points, keeping at most MaxSamples
// evenly strided ones.
func sampleXYs(samples []image.Point) plotter.XYs {
	stride := 1
	if len(samples) > MaxSamples {
		stride = (len(samples) + MaxSamples - 1) / MaxSamples
	}

	pts := make(plotter.XYs, 0, len(samples)/stride+1)
	for i := 0; i < len(samples); i += stride {
		pts = append(pts, plotter.XY{X: float64(samples[i].X), Y: float64(samples[i].Y)})
	}
	return pts
}

// curveXYs samples the curve every 4 rows, keeping the part inside the frame.
func curveXYs(curve vision.Curve, width, height int) plotter.XYs {
	var pts plotter.XYs
	for y := 0; y < height; y += 4 {
		x := curve.At(float64(y))
		if x < 0 || x >= float64(width) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: float64(y)})
	}
	return pts
}
