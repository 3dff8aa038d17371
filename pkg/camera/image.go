package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ImageSource replays still images as a frame source, for bench testing
// and the offline tools. Images are normalized like live frames.
type ImageSource struct {
	config Config
	paths  []string
	loop   bool

	mu     sync.Mutex
	next   int
	closed bool
}

// NewImageSource returns a source over the given files. With loop set, the
// sequence restarts after the last image instead of ending.
func NewImageSource(cfg Config, loop bool, paths ...string) (*ImageSource, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("camera: image source needs at least one path")
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("camera: validation failed: %v", errs)
	}
	return &ImageSource{config: cfg, paths: paths, loop: loop}, nil
}

// Read loads the next image into dst. It returns ErrEndOfStream after the
// last image when not looping.
func (s *ImageSource) Read(dst *gocv.Mat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.next >= len(s.paths) {
		if !s.loop {
			return ErrEndOfStream
		}
		s.next = 0
	}

	path := s.paths[s.next]
	s.next++

	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		return fmt.Errorf("%w: cannot read %s", ErrFrameGrab, path)
	}

	img.CopyTo(dst)
	Normalize(dst, s.config)
	return nil
}

// Close stops the source. Further reads return ErrClosed.
func (s *ImageSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
