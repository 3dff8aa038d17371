package camera

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/teslashibe/go-linefollower/internal/log"
	"gocv.io/x/gocv"
)

var (
	// ErrFrameGrab is returned when the device delivers no frame.
	ErrFrameGrab = errors.New("camera: failed to grab frame")

	// ErrClosed is returned when reading from a closed source.
	ErrClosed = errors.New("camera: source closed")

	// ErrEndOfStream is returned by ImageSource when every image was played.
	ErrEndOfStream = errors.New("camera: end of stream")
)

// Capture reads frames from a local camera through OpenCV.
type Capture struct {
	config Config
	vc     *gocv.VideoCapture
	mu     sync.Mutex // Protects vc
	closed bool
}

// Open opens the configured device and requests resolution and framerate.
func Open(cfg Config) (*Capture, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("camera: validation failed: %v", errs)
	}

	vc, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera: device %d not available", cfg.Device)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	log.Info("camera opened",
		"device", cfg.Device,
		"width", cfg.Width,
		"height", cfg.Height,
		"fps", cfg.Framerate)

	return &Capture{config: cfg, vc: vc}, nil
}

// Config returns the configuration the capture was opened with.
func (c *Capture) Config() Config {
	return c.config
}

// Read grabs the next frame into dst, at the configured size and
// orientation.
func (c *Capture) Read(dst *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if ok := c.vc.Read(dst); !ok || dst.Empty() {
		return ErrFrameGrab
	}

	Normalize(dst, c.config)
	return nil
}

// Close releases the device.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.vc.Close()
}

// Normalize resizes frame in place to the configured resolution (cameras
// may ignore the requested size) and applies the configured flips.
func Normalize(frame *gocv.Mat, cfg Config) {
	if frame.Cols() != cfg.Width || frame.Rows() != cfg.Height {
		resized := gocv.NewMat()
		gocv.Resize(*frame, &resized, image.Pt(cfg.Width, cfg.Height), 0, 0, gocv.InterpolationArea)
		resized.CopyTo(frame)
		resized.Close()
	}

	switch {
	case cfg.FlipVertical && cfg.FlipHorizontal:
		gocv.Flip(*frame, frame, -1)
	case cfg.FlipVertical:
		gocv.Flip(*frame, frame, 0)
	case cfg.FlipHorizontal:
		gocv.Flip(*frame, frame, 1)
	}
}

// EncodeJPEG encodes a frame for streaming.
func EncodeJPEG(frame gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("camera: encode jpeg: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory released by Close.
	return append([]byte(nil), buf.GetBytes()...), nil
}
