package vision

import (
	"errors"
	"fmt"
	"image"

	"github.com/teslashibe/go-linefollower/internal/log"
	"gocv.io/x/gocv"
)

// Extract runs the default pipeline on a frame of the given dimensions.
func Extract(frame gocv.Mat, width, height int) Path {
	return DefaultConfig().Extract(frame, width, height)
}

// Extract converts a frame into waypoints and a curvature estimate.
//
// It never fails: a frame without enough line pixels, or one whose pixels
// cannot support a quadratic, yields the zero Path.
func (c Config) Extract(frame gocv.Mat, width, height int) Path {
	mask, err := c.Mask(frame)
	if err != nil {
		log.Debug("vision: mask failed", "error", err)
		return Path{}
	}
	defer mask.Close()

	return c.extractFromMask(mask, width, height)
}

// Trace is one pipeline run with its intermediates, for debugging tools.
// The caller must Close Mask.
type Trace struct {
	Path    Path
	Mask    gocv.Mat
	Curve   Curve
	Samples []image.Point

	// FitErr says why Path is empty, if it is.
	FitErr error
}

// Trace runs Extract once and keeps the mask, the line pixels and the
// fitted curve. Mask is empty when the frame could not be binarized.
func (c Config) Trace(frame gocv.Mat, width, height int) Trace {
	mask, err := c.Mask(frame)
	if err != nil {
		return Trace{Mask: mask, FitErr: err}
	}

	t := Trace{Mask: mask}
	t.Curve, t.Samples, t.FitErr = c.fitMask(mask)
	if t.FitErr == nil {
		t.Path = c.pathFor(t.Curve, width, height)
	}
	return t
}

// ExtractWithMask is Extract that also hands back the binary mask. The
// caller must Close the mask.
func (c Config) ExtractWithMask(frame gocv.Mat, width, height int) (Path, gocv.Mat) {
	t := c.Trace(frame, width, height)
	return t.Path, t.Mask
}

// Fit binarizes a frame and fits the curve, returning the line pixels used.
// Unlike Extract it reports why no curve exists.
func (c Config) Fit(frame gocv.Mat) (Curve, []image.Point, error) {
	mask, err := c.Mask(frame)
	if err != nil {
		return Curve{}, nil, err
	}
	defer mask.Close()

	return c.fitMask(mask)
}

func (c Config) extractFromMask(mask gocv.Mat, width, height int) Path {
	curve, _, err := c.fitMask(mask)
	if err != nil {
		if !errors.Is(err, ErrInsufficientSignal) {
			log.Debug("vision: no curve", "error", err)
		}
		return Path{}
	}
	return c.pathFor(curve, width, height)
}

func (c Config) pathFor(curve Curve, width, height int) Path {
	return Path{
		Waypoints: c.Waypoints(curve, width, height),
		Curvature: curve.Curvature(),
	}
}

func (c Config) fitMask(mask gocv.Mat) (Curve, []image.Point, error) {
	count := gocv.CountNonZero(mask)
	if count <= c.MinSupport {
		return Curve{}, nil, fmt.Errorf("%w: %d <= %d", ErrInsufficientSignal, count, c.MinSupport)
	}

	samples := LinePixels(mask)
	curve, err := fitQuadratic(samples, c.MaxCondition)
	if err != nil {
		return Curve{}, samples, err
	}
	return curve, samples, nil
}

// Mask returns the binary line mask of a frame (255 = line).
// The caller must Close the returned Mat.
func (c Config) Mask(frame gocv.Mat) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty", ErrInvalidFrame)
	}

	gray := gocv.NewMat()
	switch frame.Type() {
	case gocv.MatTypeCV8UC1:
		frame.CopyTo(&gray)
	case gocv.MatTypeCV8UC3:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	case gocv.MatTypeCV8UC4:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRAToGray)
	default:
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("%w: unsupported type %v", ErrInvalidFrame, frame.Type())
	}
	defer gray.Close()

	smoothed := gray
	if c.BlurKernel > 1 {
		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(gray, &blurred, image.Pt(c.BlurKernel, c.BlurKernel), 0, 0, gocv.BorderDefault)
		smoothed = blurred
	}

	mode := gocv.ThresholdBinary
	if c.Invert {
		mode = gocv.ThresholdBinaryInv
	}

	mask := gocv.NewMat()
	gocv.Threshold(smoothed, &mask, c.Threshold, 255, mode)
	return mask, nil
}

// LinePixels returns the coordinates of every non-zero pixel of a
// single-channel 8-bit mask, in row-major order.
func LinePixels(mask gocv.Mat) []image.Point {
	if mask.Empty() {
		return nil
	}

	m := mask
	if !mask.IsContinuous() {
		m = mask.Clone()
		defer m.Close()
	}

	cols := m.Cols()
	data := m.ToBytes()
	points := make([]image.Point, 0, gocv.CountNonZero(m))
	for i, v := range data {
		if v != 0 {
			points = append(points, image.Pt(i%cols, i/cols))
		}
	}
	return points
}
