package vision

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"gocv.io/x/gocv"
)

const (
	testWidth  = 640
	testHeight = 480
)

var black = color.RGBA{0, 0, 0, 255}

// newFloor creates a light BGR frame with no line on it.
func newFloor(t *testing.T) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSize(testHeight, testWidth, gocv.MatTypeCV8UC3)
	frame.SetTo(gocv.NewScalar(220, 220, 220, 0))
	return frame
}

// drawCurve draws a dark line following c between rows fromY and toY.
func drawCurve(frame *gocv.Mat, c Curve, fromY, toY, thickness int) {
	prev := image.Pt(int(math.Round(c.At(float64(fromY)))), fromY)
	for y := fromY + 5; y <= toY; y += 5 {
		next := image.Pt(int(math.Round(c.At(float64(y)))), y)
		gocv.Line(frame, prev, next, black, thickness)
		prev = next
	}
}

func TestExtract_EmptyFloor(t *testing.T) {
	frame := newFloor(t)
	defer frame.Close()

	path := Extract(frame, testWidth, testHeight)

	if len(path.Waypoints) != 0 {
		t.Errorf("expected no waypoints, got %v", path.Waypoints)
	}
	if path.Curvature != 0 {
		t.Errorf("expected curvature 0, got %v", path.Curvature)
	}
	if path.Found() {
		t.Error("Found should be false on an empty floor")
	}
}

func TestExtract_StraightVerticalLine(t *testing.T) {
	frame := newFloor(t)
	defer frame.Close()

	gocv.Line(&frame, image.Pt(320, 0), image.Pt(320, testHeight-1), black, 10)

	path := Extract(frame, testWidth, testHeight)

	if len(path.Waypoints) != 6 {
		t.Fatalf("expected 6 waypoints, got %d (%v)", len(path.Waypoints), path.Waypoints)
	}
	if path.Curvature > 1e-4 {
		t.Errorf("expected curvature near 0, got %v", path.Curvature)
	}

	wantY := []int{460, 410, 360, 310, 260, 210}
	for i, wp := range path.Waypoints {
		if wp.Y != wantY[i] {
			t.Errorf("waypoint %d: y=%d, want %d", i, wp.Y, wantY[i])
		}
		if wp.X < 317 || wp.X > 323 {
			t.Errorf("waypoint %d: x=%d, want ~320", i, wp.X)
		}
	}
}

func TestExtract_CurvedLine(t *testing.T) {
	frame := newFloor(t)
	defer frame.Close()

	want := Curve{A: 0.002, B: -1.2, C: 450}
	drawCurve(&frame, want, 0, testHeight-1, 8)

	path := Extract(frame, testWidth, testHeight)

	if !path.Found() {
		t.Fatal("expected waypoints on a curved line")
	}
	if math.Abs(path.Curvature-want.A) > 2e-4 {
		t.Errorf("curvature: got %.5f, want ~%.5f", path.Curvature, want.A)
	}
	for i, wp := range path.Waypoints {
		expected := want.At(float64(wp.Y))
		if math.Abs(float64(wp.X)-expected) > 4 {
			t.Errorf("waypoint %d: x=%d, want ~%.1f", i, wp.X, expected)
		}
	}
}

func TestExtract_BelowMinimumSupport(t *testing.T) {
	frame := newFloor(t)
	defer frame.Close()

	// A short stub well under 500 pixels.
	gocv.Line(&frame, image.Pt(300, 400), image.Pt(300, 420), black, 3)

	path := Extract(frame, testWidth, testHeight)
	if path.Found() || path.Curvature != 0 {
		t.Errorf("expected empty path, got %+v", path)
	}

	_, _, err := DefaultConfig().Fit(frame)
	if !errors.Is(err, ErrInsufficientSignal) {
		t.Errorf("Fit: expected ErrInsufficientSignal, got %v", err)
	}
}

// grayFrame returns a white single-channel frame with n dark pixels laid out
// column by column over rows 100-109.
func grayFrame(n int) gocv.Mat {
	frame := gocv.NewMatWithSize(testHeight, testWidth, gocv.MatTypeCV8UC1)
	frame.SetTo(gocv.NewScalar(255, 0, 0, 0))
	for i := 0; i < n; i++ {
		frame.SetUCharAt(100+i%10, 200+i/10, 0)
	}
	return frame
}

func TestFit_SupportGateIsStrict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlurKernel = 0 // keep the pixel count exact

	atLimit := grayFrame(cfg.MinSupport)
	defer atLimit.Close()
	if _, _, err := cfg.Fit(atLimit); !errors.Is(err, ErrInsufficientSignal) {
		t.Errorf("%d pixels: expected ErrInsufficientSignal, got %v", cfg.MinSupport, err)
	}

	above := grayFrame(cfg.MinSupport + 1)
	defer above.Close()
	_, samples, err := cfg.Fit(above)
	if err != nil {
		t.Errorf("%d pixels: unexpected error %v", cfg.MinSupport+1, err)
	}
	if len(samples) != cfg.MinSupport+1 {
		t.Errorf("samples: got %d, want %d", len(samples), cfg.MinSupport+1)
	}
}

func TestExtract_DegenerateFitIsNotFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlurKernel = 0

	frame := gocv.NewMatWithSize(testHeight, testWidth, gocv.MatTypeCV8UC1)
	defer frame.Close()
	frame.SetTo(gocv.NewScalar(255, 0, 0, 0))
	for x := 0; x < testWidth; x++ {
		frame.SetUCharAt(240, x, 0)
	}

	path := cfg.Extract(frame, testWidth, testHeight)
	if path.Found() || path.Curvature != 0 {
		t.Errorf("expected empty path for a single-row line, got %+v", path)
	}

	_, _, err := cfg.Fit(frame)
	if !errors.Is(err, ErrDegenerateFit) {
		t.Errorf("Fit: expected ErrDegenerateFit, got %v", err)
	}
}

func TestExtract_InvalidFrame(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	path := Extract(empty, testWidth, testHeight)
	if path.Found() {
		t.Errorf("expected empty path for empty frame, got %+v", path)
	}

	if _, err := DefaultConfig().Mask(empty); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("Mask: expected ErrInvalidFrame, got %v", err)
	}
}

func TestExtractWithMask(t *testing.T) {
	frame := newFloor(t)
	defer frame.Close()
	gocv.Line(&frame, image.Pt(320, 0), image.Pt(320, testHeight-1), black, 10)

	path, mask := DefaultConfig().ExtractWithMask(frame, testWidth, testHeight)
	defer mask.Close()

	if !path.Found() {
		t.Error("expected waypoints")
	}
	if mask.Rows() != testHeight || mask.Cols() != testWidth {
		t.Errorf("mask size: got %dx%d", mask.Cols(), mask.Rows())
	}
	if n := gocv.CountNonZero(mask); n <= 500 {
		t.Errorf("mask should contain the line, got %d pixels", n)
	}
}

func TestTrace_MatchesExtractAndFit(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		draw    func(*gocv.Mat)
		wantErr error
	}{
		{"straight", func(m *gocv.Mat) {
			gocv.Line(m, image.Pt(320, 0), image.Pt(320, testHeight-1), black, 10)
		}, nil},
		{"diagonal", func(m *gocv.Mat) {
			gocv.Line(m, image.Pt(200, testHeight-1), image.Pt(450, 0), black, 10)
		}, nil},
		{"empty floor", func(*gocv.Mat) {}, ErrInsufficientSignal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frame := newFloor(t)
			defer frame.Close()
			tc.draw(&frame)

			tr := cfg.Trace(frame, testWidth, testHeight)
			defer tr.Mask.Close()

			if !errors.Is(tr.FitErr, tc.wantErr) {
				t.Fatalf("fit error: got %v, want %v", tr.FitErr, tc.wantErr)
			}

			path := cfg.Extract(frame, testWidth, testHeight)
			if len(path.Waypoints) != len(tr.Path.Waypoints) || path.Curvature != tr.Path.Curvature {
				t.Fatalf("Trace path %+v differs from Extract %+v", tr.Path, path)
			}
			for i := range path.Waypoints {
				if path.Waypoints[i] != tr.Path.Waypoints[i] {
					t.Errorf("waypoint %d: %+v vs %+v", i, tr.Path.Waypoints[i], path.Waypoints[i])
				}
			}

			curve, samples, _ := cfg.Fit(frame)
			if tr.Curve != curve || len(tr.Samples) != len(samples) {
				t.Errorf("Trace fit %+v (%d samples) differs from Fit %+v (%d samples)",
					tr.Curve, len(tr.Samples), curve, len(samples))
			}
			if n := gocv.CountNonZero(tr.Mask); tc.wantErr == nil && n != len(tr.Samples) {
				t.Errorf("mask has %d pixels, samples %d", n, len(tr.Samples))
			}
		})
	}
}

func TestLinePixels(t *testing.T) {
	mask := gocv.NewMatWithSize(4, 5, gocv.MatTypeCV8UC1)
	defer mask.Close()
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))
	mask.SetUCharAt(0, 1, 255)
	mask.SetUCharAt(2, 4, 255)
	mask.SetUCharAt(3, 0, 255)

	got := LinePixels(mask)
	want := []image.Point{{1, 0}, {4, 2}, {0, 3}}
	if len(got) != len(want) {
		t.Fatalf("LinePixels: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
