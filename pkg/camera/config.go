// Package camera provides frame sources for the line follower.
// Frames are delivered as BGR gocv.Mat values.
package camera

// Config holds capture parameters. They are applied once when the device is
// opened.
type Config struct {
	// === Device ===
	// Device is the V4L2 / AVFoundation index (0 = first camera).
	Device int `json:"device" mapstructure:"device"`

	// === Resolution ===
	Width     int `json:"width" mapstructure:"width"`         // Frame width in pixels
	Height    int `json:"height" mapstructure:"height"`       // Frame height in pixels
	Framerate int `json:"framerate" mapstructure:"framerate"` // Target FPS

	// Quality is the JPEG quality (1-100) for dashboard streaming.
	Quality int `json:"quality" mapstructure:"quality"`

	// === Orientation ===
	// FlipVertical and FlipHorizontal correct for a camera mounted upside
	// down or mirrored. The frame must end up with the floor nearest the
	// robot at the bottom.
	FlipVertical   bool `json:"flip_vertical" mapstructure:"flip_vertical"`
	FlipHorizontal bool `json:"flip_horizontal" mapstructure:"flip_horizontal"`
}

// Limits accepted by Validate.
const (
	MinWidth     = 160
	MinHeight    = 120
	MaxWidth     = 1920
	MaxHeight    = 1080
	MaxFramerate = 120
)

// DefaultConfig returns the reference 640x480 configuration.
// The path curvature constants are tuned for this resolution.
func DefaultConfig() Config {
	return Config{
		Device:    0,
		Width:     640,
		Height:    480,
		Framerate: 30,
		Quality:   70,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device < 0 {
		errors = append(errors, "device must not be negative")
	}
	if c.Width < MinWidth || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 1920")
	}
	if c.Height < MinHeight || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 1080")
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}

// CenterX returns the image center column the steering error is measured
// against.
func (c Config) CenterX() int {
	return c.Width / 2
}
